package handler

// Тексты, которые видит пользователь.
const (
	msgEnterDescription  = "Please enter a description for your sticker."
	msgGenerationFailed  = "Failed to generate sticker. Please try again."
	msgGenerationBusy    = "A sticker is already being generated. Please wait."
	msgNothingToSave     = "There is no generated sticker to save."
	msgSaveFailed        = "Failed to save sticker. Storage may be full."
	msgDeleteFailed      = "Failed to delete sticker. Please try again."
	msgSelectFile        = "Please select a file to upload."
	msgFileTooLarge      = "File size must be less than 2MB."
	msgUnsupportedType   = "Only PNG, WEBP and GIF images are supported."
	msgReadFailed        = "Failed to read file."
	msgAdminsOnly        = "This feature is for admins only."
	msgIncorrectPassword = "Incorrect password. Please try again."
	msgAdminActivated    = "Admin mode activated!"
	msgAdminDeactivated  = "Admin mode deactivated."
	msgStickerSaved      = "Sticker saved to the gallery!"
	msgStickerUploaded   = "Sticker uploaded!"
	msgStickerDeleted    = "Sticker deleted."
)
