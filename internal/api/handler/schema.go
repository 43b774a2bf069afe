package handler

type identityCreatedRequest struct {
	IdentityID string `json:"identity_id" validate:"required"`
	Email      string `json:"email"       validate:"required"`
}

type emailChangeRequest struct {
	PreviousEmail string `json:"previous_email" validate:"required"`
	NewEmail      string `json:"new_email"      validate:"required"`
}

type accessCheckRequest struct {
	SubjectID string `json:"subject_id" validate:"required"`
	ArtistID  string `json:"artist_id"  validate:"required"`
}

type accessCheckResponse struct {
	Allowed bool `json:"allowed"`
}

type objectFinalizedRequest struct {
	Name        string `json:"name"         validate:"required"`
	Size        int64  `json:"size"         validate:"required,gt=0"`
	ContentType string `json:"content_type" validate:"required"`
}

type alertStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=acknowledged resolved"`
}

type statusResponse struct {
	Status string `json:"status"`
}
