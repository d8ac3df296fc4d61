package models

// UpdateProfileRequest carries the editable profile fields. Nil means
// unchanged.
type UpdateProfileRequest struct {
	Name        *string   `json:"name" validate:"omitempty,min=2"`
	Bio         *string   `json:"bio" validate:"omitempty,max=500"`
	Location    *string   `json:"location" validate:"omitempty,min=2"`
	Avatar      *string   `json:"avatar" validate:"omitempty,url"`
	Socials     *Socials  `json:"socials"`
	Specialties *[]string `json:"specialties"`
	Languages   *[]string `json:"languages"`
	PhoneNumber *string   `json:"phone_number" validate:"omitempty,e164"`
	DeviceToken *string   `json:"device_token"`
}

type TrustRatingRequest struct {
	Rating *float64 `json:"rating" validate:"required,gte=0,lte=5"`
}

type VerifyRequest struct {
	Verified bool `json:"verified"`
}

type BadgesRequest struct {
	Badges []string `json:"badges" validate:"required,dive,required"`
}

type CreateReviewRequest struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"required"`
}
