package apierrors

const (
	MsgInvalidTaskID         = "invalidTaskID"
	MsgInvalidTaskPayload    = "invalidTaskPayload"
	MsgTaskNotFound          = "taskNotFound"
	MsgAttachmentNotFound    = "attachmentNotFound"
	MsgUnauthorized          = "unauthorizedAccess"
	MsgTaskConflict          = "taskVersionConflict"
	MsgFailLoadEditor        = "errorLoadTaskEditor"
	MsgFailSaveTask          = "errorSaveTask"
	MsgFailUploadAttachments = "errorUploadAttachments"
	MsgFailRemoveAttachment  = "errorRemoveAttachment"
	MsgFailCreateSubtask     = "errorCreateSubtask"
	MsgFailCreateTask        = "errorCreateTask"
)
