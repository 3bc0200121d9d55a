package handler

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedCatalog(t *testing.T, api *testAPI, maxSubjects int) (string, []string) {
	t.Helper()
	teacherID := api.createID("/teachers", gin.H{
		"full_name": "Ada Lovelace", "email": "ada@univ.test", "department": "Computer Science", "max_subjects": maxSubjects,
	})
	var subjectIDs []string
	for _, code := range []string{"CS201", "CS205", "CS207"} {
		subjectIDs = append(subjectIDs, api.createID("/subjects", gin.H{
			"code": code, "name": "Subject " + code, "branch": "CSE", "semester": 3, "credits": 4, "type": "CORE",
		}))
	}
	return teacherID, subjectIDs
}

func TestAllocationEndpoints(t *testing.T) {
	api := newTestAPI(t)
	teacherID, subjects := seedCatalog(t, api, 2)
	base := "/teachers/" + teacherID + "/allocations"

	w, env := api.do(http.MethodPost, base, gin.H{"subject_id": subjects[0], "enrolled_students": 45})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var detail struct {
		SubjectCode string `json:"subject_code"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &detail))
	assert.Equal(t, "CS201", detail.SubjectCode)

	w, env = api.do(http.MethodPost, base, gin.H{"subject_id": subjects[0]})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "DUPLICATE_ASSIGNMENT", env.Error.Code)
	assert.NotEmpty(t, env.Meta["request_id"])

	w, _ = api.do(http.MethodPost, base, gin.H{"subject_id": subjects[1]})
	require.Equal(t, http.StatusCreated, w.Code)

	w, env = api.do(http.MethodPost, base, gin.H{"subject_id": subjects[2]})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "CAPACITY_EXCEEDED", env.Error.Code)

	w, env = api.do(http.MethodGet, "/subjects/available?teacher_id="+teacherID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var available []struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &available))
	require.Len(t, available, 1)
	assert.Equal(t, subjects[2], available[0].ID)

	w, _ = api.do(http.MethodDelete, base+"/"+subjects[0], nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w, env = api.do(http.MethodDelete, base+"/"+subjects[0], nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NOT_FOUND", env.Error.Code)

	w, env = api.do(http.MethodGet, "/teachers/"+teacherID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var teacher struct {
		CurrentSubjects int `json:"current_subjects"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &teacher))
	assert.Equal(t, 1, teacher.CurrentSubjects)
}

func TestAllocationRejectsMalformedBody(t *testing.T) {
	api := newTestAPI(t)
	teacherID, _ := seedCatalog(t, api, 2)

	w, env := api.do(http.MethodPost, "/teachers/"+teacherID+"/allocations", `{"subject_id":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
}

func TestInactiveTeacherCannotReceiveSubjects(t *testing.T) {
	api := newTestAPI(t)
	teacherID, subjects := seedCatalog(t, api, 2)

	w, _ := api.do(http.MethodPatch, "/teachers/"+teacherID+"/status", gin.H{"status": "INACTIVE"})
	require.Equal(t, http.StatusOK, w.Code)

	w, env := api.do(http.MethodPost, "/teachers/"+teacherID+"/allocations", gin.H{"subject_id": subjects[0]})
	assert.Equal(t, http.StatusPreconditionFailed, w.Code)
	assert.Equal(t, "TEACHER_INACTIVE", env.Error.Code)
}

func TestTeacherListPagination(t *testing.T) {
	api := newTestAPI(t)
	seedCatalog(t, api, 2)

	w := httptestGet(api, "/api/v1/teachers?page=1&limit=10")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total_count":1`)
}
