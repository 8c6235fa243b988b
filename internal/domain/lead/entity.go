package lead

import "time"

// Status represents the operator-assigned qualification stage
type Status string

const (
	StatusNew  Status = "new"
	StatusHot  Status = "hot"
	StatusWarm Status = "warm"
	StatusCold Status = "cold"
	StatusWon  Status = "won"
)

// Valid reports whether s is one of the known qualification stages
func (s Status) Valid() bool {
	switch s {
	case StatusNew, StatusHot, StatusWarm, StatusCold, StatusWon:
		return true
	}
	return false
}

// Lead is a sales prospect captured from a marketing channel
type Lead struct {
	ID        int64     `gorm:"column:id;primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`

	// Contact
	Name  *string `gorm:"column:name" json:"name,omitempty"`
	Phone *string `gorm:"column:phone" json:"phone,omitempty"`
	Email *string `gorm:"column:email" json:"email,omitempty"`

	// Campaign attribution
	GCLID       *string `gorm:"column:gclid" json:"gclid,omitempty"`
	UTMSource   *string `gorm:"column:utm_source" json:"utm_source,omitempty"`
	UTMMedium   *string `gorm:"column:utm_medium" json:"utm_medium,omitempty"`
	UTMCampaign *string `gorm:"column:utm_campaign" json:"utm_campaign,omitempty"`
	UTMTerm     *string `gorm:"column:utm_term" json:"utm_term,omitempty"`
	UTMContent  *string `gorm:"column:utm_content" json:"utm_content,omitempty"`

	// Qualification
	Status  Status  `gorm:"column:qualification_status" json:"qualification_status"`
	Comment *string `gorm:"column:comment" json:"comment,omitempty"`

	// Raw acquisition channel tag, distinct from the UTM fields
	Source *string `gorm:"column:source" json:"source,omitempty"`
}

func (Lead) TableName() string { return "leads" }

// Origin returns the normalized channel label for this lead
func (l *Lead) Origin() string {
	return DeriveOrigin(strValue(l.Source), strValue(l.UTMSource))
}

func strValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
