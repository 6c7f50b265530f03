package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Scores are the marks shared by every kind of logbook row.
type Scores struct {
	Co               int  `json:"co"`
	Rubric1          int  `json:"rubric1"`
	Rubric2          int  `json:"rubric2"`
	Rubric3          int  `json:"rubric3"`
	Rubric4          int  `json:"rubric4"`
	Rubric5          int  `json:"rubric5"`
	Total            int  `json:"total"`
	StudentSignature bool `json:"studentSignature"`
	FacultySignature bool `json:"facultySignature"`
}

// Rubrics returns the five rubric scores in order.
func (s Scores) Rubrics() [5]int {
	return [5]int{s.Rubric1, s.Rubric2, s.Rubric3, s.Rubric4, s.Rubric5}
}

type Experiment struct {
	SlNo           int    `json:"slNo"`
	Date           string `json:"date"`
	ExperimentName string `json:"experimentName"`
	Scores
}

type OpenEndedProject struct {
	Date        string `json:"date"`
	ProjectName string `json:"projectName"`
	Scores
}

type LabExam struct {
	SlNo     int    `json:"slNo"`
	Date     string `json:"date"`
	ExamName string `json:"examName"`
	Scores
}

type FinalAssessment struct {
	Attendance       float64 `json:"attendance"`
	LabWork          float64 `json:"labWork"`
	OpenEndedProject float64 `json:"openEndedProject"`
	LabExam          float64 `json:"labExam"`
	TotalMarks       float64 `json:"totalMarks"`
}

// LogBook is one student's record for one subject. The sections are stored
// as JSON documents inside the row.
type LogBook struct {
	Id               string           `json:"_id" gorm:"primaryKey;type:varchar(36)"`
	Name             string           `json:"name" gorm:"not null"`
	RollNo           int64            `json:"rollno" gorm:"not null;uniqueIndex:idx_logbook_owner,priority:1"`
	Rgno             int64            `json:"rgno" gorm:"not null;index;uniqueIndex:idx_logbook_owner,priority:2"`
	Subject          string           `json:"subject" gorm:"not null;uniqueIndex:idx_logbook_owner,priority:3"`
	Code             string           `json:"code"`
	Semester         int              `json:"semester,omitempty"`
	Experiments      []Experiment     `json:"experiments" gorm:"serializer:json"`
	OpenEndedProject OpenEndedProject `json:"openEndedProject" gorm:"serializer:json"`
	LabExams         []LabExam        `json:"labExams" gorm:"serializer:json"`
	FinalAssessment  FinalAssessment  `json:"finalAssessment" gorm:"serializer:json"`
	CreatedAt        time.Time        `json:"createdAt" gorm:"index"`
	UpdatedAt        time.Time        `json:"updatedAt"`
}

func (LogBook) TableName() string {
	return "logbooks"
}

func (l *LogBook) BeforeCreate(tx *gorm.DB) error {
	if l.Id == "" {
		l.Id = uuid.NewString()
	}
	return nil
}

// AuditLog records a change made to a logbook.
type AuditLog struct {
	Id         int       `json:"id" gorm:"primaryKey;autoIncrement"`
	Rgno       int64     `json:"rgno" gorm:"index"`
	Role       Role      `json:"role"`
	Action     string    `json:"action"`
	Resource   string    `json:"resource"`
	ResourceId string    `json:"resourceId"`
	IP         string    `json:"ip"`
	UserAgent  string    `json:"userAgent"`
	Timestamp  time.Time `json:"timestamp" gorm:"index"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}
