package web

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPredict(t *testing.T) {
	ts := newTestServer(t, true)

	w := ts.do(t, http.MethodPost, "/api/v1/predict", gin.H{"country": "India", "education": "Post grad", "years_experience": 3}, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	session := ts.login(t, "admin", "admin123")

	w = ts.do(t, http.MethodGet, "/api/v1/predict/options", nil, session)
	require.Equal(t, http.StatusOK, w.Code)
	opts := decode(t, w)
	assert.Len(t, opts["countries"], 3)
	assert.Len(t, opts["industries"], 5)

	w = ts.do(t, http.MethodPost, "/api/v1/predict", gin.H{
		"country": "India", "education": "Post grad", "years_experience": 3, "industry": "Tech", "job_title": "Software Developer",
	}, session)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	b, _ := decode(t, w)["breakdown"].(map[string]any)
	require.NotNil(t, b)
	// 50000 + 1000*1 + 2000*3 + 3000*3
	assert.InDelta(t, 66000.0, b["annual"], 1e-6)

	w = ts.do(t, http.MethodPost, "/api/v1/predict", gin.H{"country": "Atlantis", "education": "Post grad"}, session)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = ts.do(t, http.MethodPost, "/api/v1/predict", gin.H{"country": "India", "education": "Post grad", "years_experience": 80}, session)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPredict_NoModel(t *testing.T) {
	ts := newTestServer(t, false)
	session := ts.login(t, "admin", "admin123")

	w := ts.do(t, http.MethodPost, "/api/v1/predict", gin.H{"country": "India", "education": "Post grad"}, session)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
