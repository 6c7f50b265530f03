package service

import (
	"testing"
	"time"

	"github.com/Sreehari-M-dev/LOGI-tests/database"
	"github.com/Sreehari-M-dev/LOGI-tests/database/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func countLogBooks(t *testing.T) int64 {
	t.Helper()
	var n int64
	require.NoError(t, database.GetDB().Model(&model.LogBook{}).Count(&n).Error)
	return n
}

func TestSaveInsertsThenMerges(t *testing.T) {
	setup(t)
	s := LogBookService{}

	first := &model.LogBook{
		Name: "Asha", RollNo: 7, Rgno: 1001, Subject: "Networks",
		Experiments: []model.Experiment{
			{SlNo: 1, Date: "2025-01-10", ExperimentName: "Ping", Scores: model.Scores{Rubric1: 2, Rubric2: 3}},
		},
		FinalAssessment: model.FinalAssessment{Attendance: 4, LabWork: 10},
	}
	id, isUpdate, err := s.Save(first)
	require.NoError(t, err)
	assert.False(t, isUpdate)
	assert.NotEmpty(t, id)

	stored, err := s.GetById(id)
	require.NoError(t, err)
	assert.Equal(t, 5, stored.Experiments[0].Total)
	assert.Equal(t, 14.0, stored.FinalAssessment.TotalMarks)

	second := &model.LogBook{
		Name: "Asha", RollNo: 7, Rgno: 1001, Subject: "Networks", Code: "CS301",
		Experiments: []model.Experiment{
			{SlNo: 1, Scores: model.Scores{FacultySignature: true}},
			{SlNo: 2, ExperimentName: "Traceroute", Scores: model.Scores{Rubric1: 4}},
		},
	}
	id2, isUpdate, err := s.Save(second)
	require.NoError(t, err)
	assert.True(t, isUpdate)
	assert.Equal(t, id, id2)
	assert.Equal(t, int64(1), countLogBooks(t))

	stored, err = s.GetById(id)
	require.NoError(t, err)
	assert.Equal(t, "CS301", stored.Code)
	require.Len(t, stored.Experiments, 2)
	assert.Equal(t, "Ping", stored.Experiments[0].ExperimentName)
	assert.Equal(t, 5, stored.Experiments[0].Total)
	assert.True(t, stored.Experiments[0].FacultySignature)
	assert.Equal(t, 4, stored.Experiments[1].Total)
	assert.Equal(t, 4.0, stored.FinalAssessment.Attendance)

	// Another subject is another record.
	_, isUpdate, err = s.Save(&model.LogBook{Name: "Asha", RollNo: 7, Rgno: 1001, Subject: "Compilers"})
	require.NoError(t, err)
	assert.False(t, isUpdate)
	assert.Equal(t, int64(2), countLogBooks(t))
}

func TestLogBookQueries(t *testing.T) {
	setup(t)
	s := LogBookService{}

	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	rows := []*model.LogBook{
		{Name: "A", RollNo: 1, Rgno: 11, Subject: "Networks", CreatedAt: base},
		{Name: "A", RollNo: 1, Rgno: 11, Subject: "Compilers", CreatedAt: base.Add(time.Hour)},
		{Name: "B", RollNo: 2, Rgno: 22, Subject: "Networks", CreatedAt: base.Add(2 * time.Hour)},
	}
	for _, lb := range rows {
		require.NoError(t, database.GetDB().Create(lb).Error)
	}

	all, err := s.GetAll()
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "B", all[0].Name, "newest first")

	mine, err := s.GetByRgno(11)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, "Compilers", mine[0].Subject)

	byRoll, err := s.GetByRollNo(2)
	require.NoError(t, err)
	assert.Len(t, byRoll, 1)

	none, err := s.GetByRgno(99)
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)

	_, err = s.GetById("missing")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Delete(rows[0].Id))
	assert.ErrorIs(t, s.Delete(rows[0].Id), ErrNotFound)
	assert.Equal(t, int64(2), countLogBooks(t))
}
