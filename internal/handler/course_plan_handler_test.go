package handler

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoursePlanEndpoints(t *testing.T) {
	api := newTestAPI(t)
	for i, kind := range []string{"CORE", "CORE", "CORE", "CORE", "ELECTIVE", "ELECTIVE", "ELECTIVE"} {
		credits := 4
		if kind == "ELECTIVE" {
			credits = 2
		}
		api.createID("/subjects", gin.H{
			"code": "CS3" + string(rune('0'+i)), "name": "Subject", "branch": "CSE", "semester": 3, "credits": credits, "type": kind,
		})
	}
	planID := api.createID("/course-plans", gin.H{"name": "CSE 2024", "branch": "CSE", "semester": 3})
	base := "/course-plans/" + planID

	w, env := api.do(http.MethodPost, base+"/subjects/bulk", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var bulk struct {
		Added int `json:"added"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &bulk))
	assert.Equal(t, 7, bulk.Added)

	w, env = api.do(http.MethodGet, base+"/summary", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var summary struct {
		SubjectCount  int `json:"subject_count"`
		CoreCount     int `json:"core_count"`
		ElectiveCount int `json:"elective_count"`
		TotalCredits  int `json:"total_credits"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &summary))
	assert.Equal(t, 7, summary.SubjectCount)
	assert.Equal(t, 4, summary.CoreCount)
	assert.Equal(t, 3, summary.ElectiveCount)
	assert.Equal(t, 22, summary.TotalCredits)

	var plan struct {
		Subjects []struct {
			ID string `json:"id"`
		} `json:"subjects"`
	}
	w, env = api.do(http.MethodGet, base, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(env.Data, &plan))
	first := plan.Subjects[0].ID

	w, env = api.do(http.MethodPost, base+"/subjects", gin.H{"subject_id": first})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "ALREADY_PRESENT", env.Error.Code)

	w, env = api.do(http.MethodDelete, base+"/subjects/"+first, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(env.Data, &plan))
	assert.Len(t, plan.Subjects, 6)

	w = httptestGet(api, "/api/v1"+base+"/export?format=pdf")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))

	w, env = api.do(http.MethodPut, base, gin.H{"semester": 4})
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(env.Data, &plan))
	assert.Empty(t, plan.Subjects)

	w, _ = api.do(http.MethodPost, base+"/subjects/bulk", gin.H{"type": "LAB"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCoursePlanClear(t *testing.T) {
	api := newTestAPI(t)
	subjectID := api.createID("/subjects", gin.H{
		"code": "CS301", "name": "Operating Systems", "branch": "CSE", "semester": 5, "credits": 4, "type": "CORE",
	})
	planID := api.createID("/course-plans", gin.H{
		"name": "CSE 5", "branch": "CSE", "semester": 5, "subject_ids": []string{subjectID},
	})

	w, env := api.do(http.MethodDelete, "/course-plans/"+planID+"/subjects", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var plan struct {
		TotalCredits int               `json:"total_credits"`
		Subjects     []json.RawMessage `json:"subjects"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &plan))
	assert.Empty(t, plan.Subjects)
	assert.Zero(t, plan.TotalCredits)

	w, _ = api.do(http.MethodGet, "/course-plans/unknown/summary", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
