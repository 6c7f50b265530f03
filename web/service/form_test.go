package service

import (
	"testing"

	"github.com/Sreehari-M-dev/LOGI-tests/database/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseForm() Form {
	return Form{
		"name":    "Asha",
		"rollno":  "7",
		"rgno":    "1001",
		"subject": "Networks",
	}
}

func TestParseLeadingNumbers(t *testing.T) {
	ints := []struct {
		in   string
		want int
	}{
		{"12abc", 12},
		{"3.7", 3},
		{"  42", 42},
		{"-5", -5},
		{"abc", 0},
		{"", 0},
	}
	for _, tc := range ints {
		f := Form{"v": tc.in}
		assert.Equal(t, tc.want, f.Int("v"), tc.in)
	}

	floats := []struct {
		in   string
		want float64
	}{
		{"4.5", 4.5},
		{"4.5marks", 4.5},
		{".5", 0.5},
		{"1e2", 100},
		{"x1", 0},
	}
	for _, tc := range floats {
		f := Form{"v": tc.in}
		assert.Equal(t, tc.want, f.Float("v"), tc.in)
	}

	f := Form{"n": float64(9), "b": true}
	assert.Equal(t, 9, f.Int("n"))
	assert.Equal(t, "true", f.String("b"))
}

func TestSanitizeAndChecked(t *testing.T) {
	f := Form{"name": "  <script>Asha</script> ", "a": "on", "b": true, "c": "off", "d": ""}
	assert.Equal(t, "scriptAsha/script", f.String("name"))
	assert.True(t, f.Checked("a"))
	assert.True(t, f.Checked("b"))
	assert.False(t, f.Checked("c"))
	assert.False(t, f.Checked("d"))
	assert.False(t, f.Checked("missing"))
}

func TestParseSubmissionRequiresIdentity(t *testing.T) {
	for _, key := range []string{"name", "rollno", "rgno", "subject"} {
		f := baseForm()
		delete(f, key)
		_, err := ParseSubmission(f)
		require.Error(t, err, key)
		assert.True(t, IsInputError(err))
		assert.Equal(t, "Name, Roll Number, Register Number, and Subject are required", err.Error())
	}

	f := baseForm()
	f["rgno"] = "abc"
	_, err := ParseSubmission(f)
	assert.True(t, IsInputError(err))
}

func TestParseSubmission(t *testing.T) {
	f := baseForm()
	f["code"] = "CS301"
	f["semester"] = "5"
	f["date1"] = "2025-01-10"
	f["experiment1"] = "Ping"
	f["co1"] = "2"
	f["rubric1-1"] = "3"
	f["rubric1-2"] = "4"
	f["student1"] = "on"
	f["experiment2"] = "Traceroute"
	f["total2"] = "9"
	f["date4"] = "2025-02-01" // row 3 is empty, so row 4 is not read
	f["t2experiment1"] = "Router"
	f["t2faculty1"] = true
	f["t3date1"] = "2025-03-01"
	f["exam2"] = "Viva"
	f["final1"] = "4.5"
	f["final2"] = "20"

	lb, err := ParseSubmission(f)
	require.NoError(t, err)

	assert.Equal(t, "Asha", lb.Name)
	assert.Equal(t, int64(7), lb.RollNo)
	assert.Equal(t, int64(1001), lb.Rgno)
	assert.Equal(t, "CS301", lb.Code)
	assert.Equal(t, 5, lb.Semester)

	require.Len(t, lb.Experiments, 2)
	e := lb.Experiments[0]
	assert.Equal(t, 1, e.SlNo)
	assert.Equal(t, "Ping", e.ExperimentName)
	assert.Equal(t, 2, e.Co)
	assert.Equal(t, [5]int{3, 4, 0, 0, 0}, e.Rubrics())
	assert.Equal(t, 0, e.Total, "totals are filled when stored")
	assert.True(t, e.StudentSignature)
	assert.False(t, e.FacultySignature)
	assert.Equal(t, 9, lb.Experiments[1].Total)

	assert.Equal(t, "Router", lb.OpenEndedProject.ProjectName)
	assert.True(t, lb.OpenEndedProject.FacultySignature)

	require.Len(t, lb.LabExams, 2)
	assert.Equal(t, "Lab Exam 1", lb.LabExams[0].ExamName)
	assert.Equal(t, "Viva", lb.LabExams[1].ExamName)
	assert.Equal(t, 2, lb.LabExams[1].SlNo)

	assert.Equal(t, 4.5, lb.FinalAssessment.Attendance)
	assert.Equal(t, 20.0, lb.FinalAssessment.LabWork)
	assert.Zero(t, lb.FinalAssessment.TotalMarks)
}

func TestFillTotals(t *testing.T) {
	lb := &model.LogBook{
		Experiments: []model.Experiment{
			{SlNo: 1, Scores: model.Scores{Rubric1: 1, Rubric2: 2, Rubric3: 3, Rubric4: 4, Rubric5: 5}},
			{SlNo: 2, Scores: model.Scores{Rubric1: 1, Total: 40}},
		},
		OpenEndedProject: model.OpenEndedProject{Scores: model.Scores{Rubric5: 7}},
		LabExams:         []model.LabExam{{SlNo: 1, Scores: model.Scores{Rubric2: 6}}},
		FinalAssessment:  model.FinalAssessment{Attendance: 4.5, LabWork: 20, OpenEndedProject: 10, LabExam: 15},
	}
	FillTotals(lb)
	assert.Equal(t, 15, lb.Experiments[0].Total)
	assert.Equal(t, 40, lb.Experiments[1].Total)
	assert.Equal(t, 7, lb.OpenEndedProject.Total)
	assert.Equal(t, 6, lb.LabExams[0].Total)
	assert.Equal(t, 49.5, lb.FinalAssessment.TotalMarks)

	lb.FinalAssessment.TotalMarks = 45
	FillTotals(lb)
	assert.Equal(t, 45.0, lb.FinalAssessment.TotalMarks)
}

func TestTotals(t *testing.T) {
	assert.Equal(t, 15, RubricTotal(1, 2, 3, 4, 5))
	assert.Equal(t, 0, RubricTotal(0, 0, 0, 0, 0))
	assert.Equal(t, 49.5, FinalTotal(4.5, 20, 10, 15))
}

func TestCheckRows(t *testing.T) {
	complete := func(f Form, prefix string) {
		for _, k := range []string{"date", "experiment", "co"} {
			f[k+prefix] = "x"
		}
		for r := 1; r <= 5; r++ {
			f["rubric"+prefix+"-"+string(rune('0'+r))] = "1"
		}
	}

	f := baseForm()
	assert.NoError(t, CheckRows(f), "no rows at all")

	complete(f, "1")
	assert.NoError(t, CheckRows(f))

	// An empty row is fine.
	f["date2"] = ""
	f["experiment2"] = ""
	assert.NoError(t, CheckRows(f))

	f["experiment2"] = "Traceroute"
	f["rubric2-3"] = "4"
	err := CheckRows(f)
	require.Error(t, err)
	assert.True(t, IsInputError(err))
	assert.Equal(t, "Experiment row 2 is incomplete. Missing fields: date2, co2, rubric2-1, rubric2-2, rubric2-4, rubric2-5", err.Error())

	g := baseForm()
	g["t2date1"] = "2025-01-01"
	err = CheckRows(g)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Open-ended project is incomplete")

	h := baseForm()
	h["exam1"] = "Viva"
	err = CheckRows(h)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Lab exam row 1 is incomplete")
	assert.Contains(t, err.Error(), "t3date1")
}

func TestFormFieldsRoundTrip(t *testing.T) {
	lb := &model.LogBook{
		Name: "Asha", RollNo: 7, Rgno: 1001, Subject: "Networks", Code: "CS301", Semester: 5,
		Experiments: []model.Experiment{
			{SlNo: 1, Date: "2025-01-10", ExperimentName: "Ping", Scores: model.Scores{Co: 1, Rubric1: 2, Rubric2: 3, Total: 5, StudentSignature: true}},
			{SlNo: 2, ExperimentName: "Traceroute", Scores: model.Scores{Rubric3: 4, Total: 4, FacultySignature: true}},
		},
		OpenEndedProject: model.OpenEndedProject{Date: "2025-02-01", ProjectName: "Router", Scores: model.Scores{Rubric5: 9, Total: 9}},
		LabExams: []model.LabExam{
			{SlNo: 1, Date: "2025-03-01", ExamName: "Lab Exam 1", Scores: model.Scores{Co: 3, Rubric1: 8, Total: 8}},
		},
		FinalAssessment: model.FinalAssessment{Attendance: 4.5, LabWork: 20, OpenEndedProject: 9, LabExam: 8, TotalMarks: 41.5},
	}

	fields := FormFields(lb)
	assert.Equal(t, "Ping", fields["experiment1"])
	assert.Equal(t, "on", fields["student1"])
	assert.NotContains(t, fields, "faculty1")
	assert.Equal(t, "", fields["rubric1-3"])
	assert.Equal(t, "on", fields["faculty2"])
	assert.Equal(t, "Router", fields["t2experiment1"])
	assert.Equal(t, "Lab Exam 1", fields["exam1"])
	assert.Equal(t, "4.5", fields["final1"])
	assert.Equal(t, "41.5", fields["final5"])

	f := Form{}
	for k, v := range fields {
		f[k] = v
	}
	got, err := ParseSubmission(f)
	require.NoError(t, err)
	assert.Equal(t, lb.Experiments, got.Experiments)
	assert.Equal(t, lb.OpenEndedProject, got.OpenEndedProject)
	assert.Equal(t, lb.LabExams, got.LabExams)
	assert.Equal(t, lb.FinalAssessment, got.FinalAssessment)
	assert.Equal(t, lb.Code, got.Code)
	assert.Equal(t, lb.Semester, got.Semester)
}

func TestDecodeForm(t *testing.T) {
	f, err := DecodeForm([]byte(`{"name":"Asha","rollno":7,"student1":"on"}`))
	require.NoError(t, err)
	assert.Equal(t, "Asha", f.String("name"))
	assert.Equal(t, int64(7), f.Int64("rollno"))

	_, err = DecodeForm([]byte(`[1,2]`))
	assert.True(t, IsInputError(err))
	_, err = DecodeForm([]byte(`{`))
	assert.True(t, IsInputError(err))
}
