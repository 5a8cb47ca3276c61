package models

import "time"

// ContactMessage is a message left through the public contact form.
type ContactMessage struct {
	BaseModel
	Name    string `gorm:"size:150;not null" json:"name"`
	Email   string `gorm:"size:254;not null" json:"email"`
	Subject string `gorm:"size:150;not null" json:"subject"`
	Message string `gorm:"not null" json:"message"`
}

// Strategy call types.
const (
	CallTypeNGO = "ngo"
	CallTypeCIC = "cic"
)

// Organization stages offered on the strategy call form.
const (
	StageIdea        = "idea"
	StageRegistering = "registering"
	StageRegistered  = "registered"
	StageGrowing     = "growing"
)

type StrategyCall struct {
	BaseModel
	CallType         string    `gorm:"size:10;not null" json:"call_type"`
	FullName         string    `gorm:"size:150;not null" json:"full_name"`
	Email            string    `gorm:"size:254;not null" json:"email"`
	PhoneNumber      *string   `gorm:"size:20" json:"phone_number"`
	Country          string    `gorm:"size:100;not null" json:"country"`
	OrganizationName *string   `gorm:"size:200" json:"organization_name"`
	Stage            string    `gorm:"size:50;not null" json:"stage"`
	Goal             string    `gorm:"not null" json:"goal"`
	PreferredDate    time.Time `gorm:"type:date;not null" json:"preferred_date"`
	PreferredTime    string    `gorm:"type:time;not null" json:"preferred_time"`
}

// Event formats a speaker can be invited for.
const (
	EventKeynote     = "keynote"
	EventPanel       = "panel"
	EventPodcast     = "podcast"
	EventMasterclass = "masterclass"
	EventWorkshop    = "workshop"
	EventOther       = "other"
)

type SpeakerInvitation struct {
	BaseModel
	FullName         string  `gorm:"size:150;not null" json:"full_name"`
	Email            string  `gorm:"size:254;not null" json:"email"`
	PhoneNumber      *string `gorm:"size:30" json:"phone_number"`
	Country          string  `gorm:"size:100;not null" json:"country"`
	OrganizationName string  `gorm:"size:200;not null" json:"organization_name"`
	EventStructure   string  `gorm:"size:50;not null" json:"event_structure"`
	Message          string  `gorm:"not null" json:"message"`
}
