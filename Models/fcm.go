package Models

import (
	"gorm.io/gorm"
)

// MemberToken stores the FCM device token registered by a team member, so
// assignment notifications can reach their device.
type MemberToken struct {
	gorm.Model
	Member string `json:"member" gorm:"uniqueIndex;not null"`
	Value  string `json:"value"`
}

type RegisterTokenRequest struct {
	Member string `json:"member" validate:"required"`
	Value  string `json:"value" validate:"required"`
}

// TokenForMember returns the registered device token for a member, or an
// empty string when none exists.
func TokenForMember(db *gorm.DB, member string) string {
	var token MemberToken
	if err := db.Where("member = ?", member).First(&token).Error; err != nil {
		return ""
	}
	return token.Value
}
