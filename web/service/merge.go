package service

import "github.com/Sreehari-M-dev/LOGI-tests/database/model"

func setString(dst *string, src string) {
	if src != "" {
		*dst = src
	}
}

func setInt(dst *int, src int) {
	if src != 0 {
		*dst = src
	}
}

func setFloat(dst *float64, src float64) {
	if src != 0 {
		*dst = src
	}
}

func setBool(dst *bool, src bool) {
	if src {
		*dst = true
	}
}

func mergeScores(dst *model.Scores, src model.Scores) {
	setInt(&dst.Co, src.Co)
	setInt(&dst.Rubric1, src.Rubric1)
	setInt(&dst.Rubric2, src.Rubric2)
	setInt(&dst.Rubric3, src.Rubric3)
	setInt(&dst.Rubric4, src.Rubric4)
	setInt(&dst.Rubric5, src.Rubric5)
	setInt(&dst.Total, src.Total)
	setBool(&dst.StudentSignature, src.StudentSignature)
	setBool(&dst.FacultySignature, src.FacultySignature)
}

// Merge folds incoming into existing. A field is overwritten only when the
// incoming value is non-empty, non-zero or true, so nothing set can be
// cleared by a later submission. Experiments and lab exams are matched by
// serial number; unmatched entries are appended when they carry a date or a
// name.
func Merge(existing, incoming *model.LogBook) {
	setString(&existing.Name, incoming.Name)
	setString(&existing.Code, incoming.Code)
	setInt(&existing.Semester, incoming.Semester)

	for _, in := range incoming.Experiments {
		idx := -1
		for i := range existing.Experiments {
			if existing.Experiments[i].SlNo == in.SlNo {
				idx = i
				break
			}
		}
		if idx < 0 {
			if in.Date != "" || in.ExperimentName != "" {
				existing.Experiments = append(existing.Experiments, in)
			}
			continue
		}
		e := &existing.Experiments[idx]
		setString(&e.Date, in.Date)
		setString(&e.ExperimentName, in.ExperimentName)
		mergeScores(&e.Scores, in.Scores)
	}

	p := &existing.OpenEndedProject
	setString(&p.Date, incoming.OpenEndedProject.Date)
	setString(&p.ProjectName, incoming.OpenEndedProject.ProjectName)
	mergeScores(&p.Scores, incoming.OpenEndedProject.Scores)

	for _, in := range incoming.LabExams {
		idx := -1
		for i := range existing.LabExams {
			if existing.LabExams[i].SlNo == in.SlNo {
				idx = i
				break
			}
		}
		if idx < 0 {
			if in.Date != "" || in.ExamName != "" {
				existing.LabExams = append(existing.LabExams, in)
			}
			continue
		}
		e := &existing.LabExams[idx]
		setString(&e.Date, in.Date)
		setString(&e.ExamName, in.ExamName)
		mergeScores(&e.Scores, in.Scores)
	}

	fa := &existing.FinalAssessment
	in := incoming.FinalAssessment
	setFloat(&fa.Attendance, in.Attendance)
	setFloat(&fa.LabWork, in.LabWork)
	setFloat(&fa.OpenEndedProject, in.OpenEndedProject)
	setFloat(&fa.LabExam, in.LabExam)
	setFloat(&fa.TotalMarks, in.TotalMarks)
}
