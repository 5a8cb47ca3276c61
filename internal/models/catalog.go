package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type Book struct {
	CatalogModel
	Title                string          `gorm:"size:200;not null" json:"title"`
	Subtitle             *string         `gorm:"size:255" json:"subtitle"`
	Description          string          `json:"description"`
	CoverImage           string          `json:"cover_image"`
	KindleLink           *string         `json:"kindle_link"`
	PaperbackLink        *string         `json:"paperback_link"`
	PDFLink              *string         `gorm:"column:pdf_link" json:"pdf_link"`
	FreeChapterPDF       *string         `gorm:"column:free_chapter_pdf" json:"free_chapter_pdf"`
	Price                decimal.Decimal `gorm:"type:numeric(8,2);not null;default:0" json:"price"`
	BundleEligible       bool            `gorm:"default:true" json:"bundle_eligible"`
	WhatReadersWillLearn datatypes.JSON  `json:"what_readers_will_learn"`
}

type Course struct {
	CatalogModel
	Title           string          `gorm:"size:200;not null" json:"title"`
	Description     string          `json:"description"`
	Duration        string          `gorm:"size:100" json:"duration"`
	Price           decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"price"`
	InstructorName  string          `gorm:"size:100" json:"instructor_name"`
	InstructorPhoto *string         `json:"instructor_photo"`
	Thumbnail       string          `json:"thumbnail"`
	WhatYouLearn    string          `json:"what_you_learn"`
	WhoIsFor        *string         `json:"who_is_for"`
	AccessCode      string          `gorm:"size:20;uniqueIndex;not null" json:"-"`
	Lessons         []CourseLesson  `json:"lessons,omitempty"`
}

// CourseLesson is ordered by Order within its course.
type CourseLesson struct {
	CatalogModel
	CourseID uint    `gorm:"index;not null" json:"course_id"`
	Title    string  `gorm:"size:200;not null" json:"title"`
	VideoURL string  `json:"video_url"`
	Resource *string `json:"resource"`
	Order    int     `gorm:"column:lesson_order;default:1" json:"order"`
}

// CourseSummary is the list projection of a course.
type CourseSummary struct {
	ID           uint            `json:"id"`
	Title        string          `json:"title"`
	Description  string          `json:"description"`
	Duration     string          `json:"duration"`
	Price        decimal.Decimal `json:"price"`
	Thumbnail    string          `json:"thumbnail"`
	ModulesCount int64           `json:"modules_count"`
	CreatedAt    time.Time       `json:"created_at"`
}
