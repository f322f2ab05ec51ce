package i18n

// Message keys. English is the source text; every key must have an Amharic entry.
const (
	MsgFormMalformed = "form.malformed"

	MsgFullNameRequired     = "step1.fullName.required"
	MsgPhoneNumberMin       = "step1.phoneNumber.min"
	MsgCityRequired         = "step1.city.required"
	MsgEducationStatusOneOf = "step1.educationStatus.oneof"
	MsgWorkStatusOneOf      = "step1.workStatus.oneof"

	MsgSavedDateRequired       = "step2.savedDate.required"
	MsgSavedChurchRequired     = "step2.savedChurch.required"
	MsgInviterPhoneMin         = "step2.inviterPhoneNumber.min"
	MsgInvitationSourceOneOf   = "step2.invitationSource.oneof"
	MsgDoesServeRequired       = "step2.doesServe.required"
	MsgDepartmentRequired      = "step2.department.required"
	MsgDepartmentUnknown       = "step2.department.unknown"
	MsgTrainingUnknown         = "step2.trainings.unknown"
	MsgMaritalStatusRequired   = "step3.maritalStatus.required"
	MsgUserImageRequired       = "step3.userImage.required"
	MsgNumberOfChildrenMissing = "step3.numberOfChildren.required"
	MsgChildrenCount           = "step3.children.count"
	MsgChildName               = "step3.child.fullName"
	MsgChildAge                = "step3.child.age"
	MsgChildImage              = "step3.child.image"
	MsgImageInvalid            = "image.invalid"

	MsgImageTooLarge  = "image.tooLarge"
	MsgImageNotImage  = "image.notImage"
	MsgImageProcessed = "image.processing"
	MsgImageDimension = "image.dimensions"

	MsgSubmitFailed  = "submit.failed"
	MsgSubmitNetwork = "submit.network"
	MsgRegistered    = "notify.registered"

	MsgStep1Title = "step.1"
	MsgStep2Title = "step.2"
	MsgStep3Title = "step.3"
	MsgDoneTitle  = "step.done"
)

type translation struct {
	en string
	am string
}

var messages = map[string]translation{
	MsgFormMalformed: {
		en: "The submitted data could not be read.",
		am: "የላኩት መረጃ ሊነበብ አልቻለም።",
	},

	MsgFullNameRequired: {
		en: "Full Name is required.",
		am: "ሙሉ ስም ያስፈልጋል።",
	},
	MsgPhoneNumberMin: {
		en: "Phone Number must be at least 10 digits.",
		am: "ስልክ ቁጥር ቢያንስ 10 አሃዝ መሆን አለበት።",
	},
	MsgCityRequired: {
		en: "City is required.",
		am: "ከተማ ያስፈልጋል።",
	},
	MsgEducationStatusOneOf: {
		en: "Please select a valid education status.",
		am: "እባክዎ ትክክለኛ የትምህርት ደረጃ ይምረጡ።",
	},
	MsgWorkStatusOneOf: {
		en: "Please select a valid work status.",
		am: "እባክዎ ትክክለኛ የሥራ ሁኔታ ይምረጡ።",
	},

	MsgSavedDateRequired: {
		en: "Please enter when you got saved.",
		am: "እባክዎ የዳኑበትን ጊዜ ያስገቡ።",
	},
	MsgSavedChurchRequired: {
		en: "Please enter the church where you got saved.",
		am: "እባክዎ የዳኑበትን ቤተ ክርስቲያን ያስገቡ።",
	},
	MsgInviterPhoneMin: {
		en: "Phone number must be at least 10 digits.",
		am: "ስልክ ቁጥር ቢያንስ 10 አሃዝ መሆን አለበት።",
	},
	MsgInvitationSourceOneOf: {
		en: "Please choose Social Media or Gospel TV.",
		am: "እባክዎ ማህበራዊ ሚዲያ ወይም ጎስፕል ቲቪ ይምረጡ።",
	},
	MsgDoesServeRequired: {
		en: "Please select whether you serve in any departments.",
		am: "እባክዎ በማንኛውም ክፍል ያገለግሉ እንደሆነ ይምረጡ።",
	},
	MsgDepartmentRequired: {
		en: "Please select at least one department if you serve.",
		am: "የሚያገለግሉ ከሆነ እባክዎ ቢያንስ አንድ ክፍል ይምረጡ።",
	},
	MsgDepartmentUnknown: {
		en: "Unknown department: %s.",
		am: "ያልታወቀ ክፍል፦ %s።",
	},
	MsgTrainingUnknown: {
		en: "Unknown training: %s.",
		am: "ያልታወቀ ስልጠና፦ %s።",
	},
	MsgMaritalStatusRequired: {
		en: "Please select your marital status.",
		am: "እባክዎ የጋብቻ ሁኔታዎን ይምረጡ።",
	},
	MsgUserImageRequired: {
		en: "Please upload your photo.",
		am: "እባክዎ ፎቶዎን ይጫኑ።",
	},
	MsgNumberOfChildrenMissing: {
		en: "Please enter the number of children.",
		am: "እባክዎ የልጆችን ብዛት ያስገቡ።",
	},
	MsgChildrenCount: {
		en: "Please provide details for exactly %d children.",
		am: "እባክዎ የ%d ልጆችን መረጃ በትክክል ያስገቡ።",
	},
	MsgChildName: {
		en: "Please enter the child's full name.",
		am: "እባክዎ የልጁን ሙሉ ስም ያስገቡ።",
	},
	MsgChildAge: {
		en: "Age must be 0 or more.",
		am: "እድሜ 0 ወይም ከዚያ በላይ መሆን አለበት።",
	},
	MsgChildImage: {
		en: "Please upload a photo of the child.",
		am: "እባክዎ የልጁን ፎቶ ይጫኑ።",
	},
	MsgImageInvalid: {
		en: "Please upload the image again.",
		am: "እባክዎ ምስሉን እንደገና ይጫኑ።",
	},

	MsgImageTooLarge: {
		en: "Image size must be less than 3MB",
		am: "የምስሉ መጠን ከ3MB ያነሰ መሆን አለበት",
	},
	MsgImageNotImage: {
		en: "Please upload an image file",
		am: "እባክዎ የምስል ፋይል ይጫኑ",
	},
	MsgImageDimension: {
		en: "Image dimensions are too large. Please choose a smaller photo.",
		am: "የምስሉ ልኬት በጣም ትልቅ ነው። እባክዎ ያነሰ ፎቶ ይምረጡ።",
	},
	MsgImageProcessed: {
		en: "Error processing image. Please try again.",
		am: "ምስሉን በማዘጋጀት ላይ ስህተት ተፈጥሯል። እባክዎ እንደገና ይሞክሩ።",
	},

	MsgSubmitFailed: {
		en: "Failed to submit form",
		am: "ቅጹን መላክ አልተቻለም",
	},
	MsgSubmitNetwork: {
		en: "You appear to be offline. Please check your connection and try again.",
		am: "ከኢንተርኔት ጋር ያልተገናኙ ይመስላል። እባክዎ ግንኙነትዎን አረጋግጠው እንደገና ይሞክሩ።",
	},
	MsgRegistered: {
		en: "Registered Successfully! Thank you %s, your registration has been received.",
		am: "በተሳካ ሁኔታ ተመዝግበዋል! %s እናመሰግናለን፣ ምዝገባዎ ደርሶናል።",
	},

	MsgStep1Title: {en: "Basic Information", am: "መሰረታዊ መረጃ"},
	MsgStep2Title: {en: "Church Related Information One", am: "ከቤተ ክርስቲያን ጋር የተያያዘ መረጃ አንድ"},
	MsgStep3Title: {en: "Church Related Information Two", am: "ከቤተ ክርስቲያን ጋር የተያያዘ መረጃ ሁለት"},
	MsgDoneTitle:  {en: "Registered Successfully!", am: "በተሳካ ሁኔታ ተመዝግበዋል!"},
}
