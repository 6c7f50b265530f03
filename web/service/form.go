package service

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/Sreehari-M-dev/LOGI-tests/database/model"
	"github.com/Sreehari-M-dev/LOGI-tests/web/entity"

	"github.com/goccy/go-json"
)

// Form is the flat field map posted by the logbook page.
type Form map[string]any

// DecodeForm decodes a JSON object body into a Form.
func DecodeForm(body []byte) (Form, error) {
	f := Form{}
	if err := json.Unmarshal(body, &f); err != nil {
		return nil, &InputError{Msg: "Request body must be a JSON object"}
	}
	return f, nil
}

// String returns the sanitized string value of key.
func (f Form) String(key string) string {
	return sanitize(f.raw(key))
}

func (f Form) raw(key string) string {
	switch v := f[key].(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	case json.Number:
		return v.String()
	}
	return ""
}

// Has reports whether key carries a non-empty value.
func (f Form) Has(key string) bool {
	return f.String(key) != ""
}

// Int reads key with leading-integer parsing.
func (f Form) Int(key string) int {
	return int(entity.ParseLeadingInt(f.String(key)))
}

// Int64 reads key with leading-integer parsing.
func (f Form) Int64(key string) int64 {
	return entity.ParseLeadingInt(f.String(key))
}

// Float reads key with leading-float parsing.
func (f Form) Float(key string) float64 {
	return parseLeadingFloat(f.String(key))
}

// Checked reports whether a checkbox field was ticked.
func (f Form) Checked(key string) bool {
	switch v := f[key].(type) {
	case bool:
		return v
	case string:
		return v == "on" || v == "true"
	}
	return false
}

func sanitize(s string) string {
	s = strings.ReplaceAll(s, "<", "")
	s = strings.ReplaceAll(s, ">", "")
	return strings.TrimSpace(s)
}

var leadingFloat = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)

func parseLeadingFloat(s string) float64 {
	m := leadingFloat.FindString(strings.TrimLeft(s, " \t\r\n"))
	if m == "" {
		return 0
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0
	}
	return v
}

// rowKeys names the form fields of one logbook row.
type rowKeys struct {
	date, name, co, total, student, faculty string
	rubric                                  [5]string
}

func experimentKeys(i int) rowKeys {
	k := rowKeys{
		date:    fmt.Sprintf("date%d", i),
		name:    fmt.Sprintf("experiment%d", i),
		co:      fmt.Sprintf("co%d", i),
		total:   fmt.Sprintf("total%d", i),
		student: fmt.Sprintf("student%d", i),
		faculty: fmt.Sprintf("faculty%d", i),
	}
	for r := range k.rubric {
		k.rubric[r] = fmt.Sprintf("rubric%d-%d", i, r+1)
	}
	return k
}

func projectKeys() rowKeys {
	k := rowKeys{
		date:    "t2date1",
		name:    "t2experiment1",
		co:      "t2co1",
		total:   "t2total1",
		student: "t2student1",
		faculty: "t2faculty1",
	}
	for r := range k.rubric {
		k.rubric[r] = fmt.Sprintf("t2rubric1-%d", r+1)
	}
	return k
}

func examKeys(i int) rowKeys {
	k := rowKeys{
		date:    fmt.Sprintf("t3date%d", i),
		name:    fmt.Sprintf("exam%d", i),
		co:      fmt.Sprintf("t3co%d", i),
		total:   fmt.Sprintf("t3total%d", i),
		student: fmt.Sprintf("t3student%d", i),
		faculty: fmt.Sprintf("t3faculty%d", i),
	}
	for r := range k.rubric {
		k.rubric[r] = fmt.Sprintf("t3rubric%d-%d", i, r+1)
	}
	return k
}

var finalKeys = [5]string{"final1", "final2", "final3", "final4", "final5"}

func (f Form) scores(k rowKeys) model.Scores {
	return model.Scores{
		Co:               f.Int(k.co),
		Rubric1:          f.Int(k.rubric[0]),
		Rubric2:          f.Int(k.rubric[1]),
		Rubric3:          f.Int(k.rubric[2]),
		Rubric4:          f.Int(k.rubric[3]),
		Rubric5:          f.Int(k.rubric[4]),
		Total:            f.Int(k.total),
		StudentSignature: f.Checked(k.student),
		FacultySignature: f.Checked(k.faculty),
	}
}

// ParseSubmission converts a posted form into a logbook. Name, roll number,
// register number and subject are required.
func ParseSubmission(f Form) (*model.LogBook, error) {
	if !f.Has("name") || !f.Has("rollno") || !f.Has("rgno") || !f.Has("subject") {
		return nil, &InputError{Msg: "Name, Roll Number, Register Number, and Subject are required"}
	}
	lb := &model.LogBook{
		Name:        f.String("name"),
		RollNo:      f.Int64("rollno"),
		Rgno:        f.Int64("rgno"),
		Subject:     f.String("subject"),
		Code:        f.String("code"),
		Semester:    f.Int("semester"),
		Experiments: []model.Experiment{},
		LabExams:    []model.LabExam{},
	}
	if lb.RollNo <= 0 || lb.Rgno <= 0 {
		return nil, &InputError{Msg: "Roll Number and Register Number must be positive numbers"}
	}

	for i := 1; ; i++ {
		k := experimentKeys(i)
		if !f.Has(k.date) && !f.Has(k.name) {
			break
		}
		lb.Experiments = append(lb.Experiments, model.Experiment{
			SlNo:           i,
			Date:           f.String(k.date),
			ExperimentName: f.String(k.name),
			Scores:         f.scores(k),
		})
	}

	k := projectKeys()
	lb.OpenEndedProject = model.OpenEndedProject{
		Date:        f.String(k.date),
		ProjectName: f.String(k.name),
		Scores:      f.scores(k),
	}

	for i := 1; ; i++ {
		k := examKeys(i)
		if !f.Has(k.date) && !f.Has(k.name) {
			break
		}
		name := f.String(k.name)
		if name == "" {
			name = fmt.Sprintf("Lab Exam %d", i)
		}
		lb.LabExams = append(lb.LabExams, model.LabExam{
			SlNo:     i,
			Date:     f.String(k.date),
			ExamName: name,
			Scores:   f.scores(k),
		})
	}

	lb.FinalAssessment = model.FinalAssessment{
		Attendance:       f.Float(finalKeys[0]),
		LabWork:          f.Float(finalKeys[1]),
		OpenEndedProject: f.Float(finalKeys[2]),
		LabExam:          f.Float(finalKeys[3]),
		TotalMarks:       f.Float(finalKeys[4]),
	}
	return lb, nil
}

// RubricTotal sums the five rubric scores of a row.
func RubricTotal(r1, r2, r3, r4, r5 int) int {
	return r1 + r2 + r3 + r4 + r5
}

// FinalTotal sums the four final assessment components.
func FinalTotal(attendance, labWork, project, labExam float64) float64 {
	return attendance + labWork + project + labExam
}

func fillScoreTotal(s *model.Scores) {
	if s.Total == 0 {
		s.Total = RubricTotal(s.Rubric1, s.Rubric2, s.Rubric3, s.Rubric4, s.Rubric5)
	}
}

// FillTotals replaces zero row totals with the rubric sum and a zero
// totalMarks with the sum of the four final components.
func FillTotals(lb *model.LogBook) {
	for i := range lb.Experiments {
		fillScoreTotal(&lb.Experiments[i].Scores)
	}
	fillScoreTotal(&lb.OpenEndedProject.Scores)
	for i := range lb.LabExams {
		fillScoreTotal(&lb.LabExams[i].Scores)
	}
	fa := &lb.FinalAssessment
	if fa.TotalMarks == 0 {
		fa.TotalMarks = FinalTotal(fa.Attendance, fa.LabWork, fa.OpenEndedProject, fa.LabExam)
	}
}

func (f Form) missing(k rowKeys) (present bool, missing []string) {
	keys := append([]string{k.date, k.name, k.co}, k.rubric[:]...)
	for _, key := range keys {
		if f.Has(key) {
			present = true
		} else {
			missing = append(missing, key)
		}
	}
	return present, missing
}

func (f Form) hasAnyKey(k rowKeys) bool {
	for _, key := range append([]string{k.date, k.name, k.co}, k.rubric[:]...) {
		if _, ok := f[key]; ok {
			return true
		}
	}
	return false
}

// CheckRows reports the first row that was started but not finished. A row
// is finished when its date, name, CO and all five rubrics are filled.
func CheckRows(f Form) error {
	check := func(label string, k rowKeys) error {
		present, missing := f.missing(k)
		if present && len(missing) > 0 {
			return &InputError{Msg: fmt.Sprintf("%s is incomplete. Missing fields: %s", label, strings.Join(missing, ", "))}
		}
		return nil
	}

	for i := 1; f.hasAnyKey(experimentKeys(i)); i++ {
		if err := check(fmt.Sprintf("Experiment row %d", i), experimentKeys(i)); err != nil {
			return err
		}
	}
	if err := check("Open-ended project", projectKeys()); err != nil {
		return err
	}
	for i := 1; f.hasAnyKey(examKeys(i)); i++ {
		if err := check(fmt.Sprintf("Lab exam row %d", i), examKeys(i)); err != nil {
			return err
		}
	}
	return nil
}

func itoa(n int) string {
	if n == 0 {
		return ""
	}
	return strconv.Itoa(n)
}

func ftoa(v float64) string {
	if v == 0 {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func putRow(fields map[string]string, k rowKeys, date, name string, s model.Scores) {
	fields[k.date] = date
	fields[k.name] = name
	fields[k.co] = itoa(s.Co)
	for r, v := range s.Rubrics() {
		fields[k.rubric[r]] = itoa(v)
	}
	fields[k.total] = itoa(s.Total)
	if s.StudentSignature {
		fields[k.student] = "on"
	}
	if s.FacultySignature {
		fields[k.faculty] = "on"
	}
}

// FormFields renders a logbook back into the page's form field names. Zero
// values are empty and ticked signatures are "on".
func FormFields(lb *model.LogBook) map[string]string {
	fields := map[string]string{
		"name":     lb.Name,
		"rollno":   strconv.FormatInt(lb.RollNo, 10),
		"rgno":     strconv.FormatInt(lb.Rgno, 10),
		"subject":  lb.Subject,
		"code":     lb.Code,
		"semester": itoa(lb.Semester),
	}
	for i, e := range lb.Experiments {
		slNo := e.SlNo
		if slNo == 0 {
			slNo = i + 1
		}
		putRow(fields, experimentKeys(slNo), e.Date, e.ExperimentName, e.Scores)
	}
	p := lb.OpenEndedProject
	putRow(fields, projectKeys(), p.Date, p.ProjectName, p.Scores)
	for i, e := range lb.LabExams {
		slNo := e.SlNo
		if slNo == 0 {
			slNo = i + 1
		}
		putRow(fields, examKeys(slNo), e.Date, e.ExamName, e.Scores)
	}
	fa := lb.FinalAssessment
	for i, v := range []float64{fa.Attendance, fa.LabWork, fa.OpenEndedProject, fa.LabExam, fa.TotalMarks} {
		fields[finalKeys[i]] = ftoa(v)
	}
	return fields
}
