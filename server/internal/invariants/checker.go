// Package invariants checks identity rules through the public HTTP API
// only, treating the service as a black box. The same checks run against
// an in-process router in unit tests and against a deployed service with
// the "invariants" build tag.
package invariants

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mycelian/mycelian-identities/server/internal/model"
)

// Checker drives one service instance.
type Checker struct {
	baseURL string
	token   string
	client  *http.Client
}

// NewChecker returns a checker that authenticates with token.
func NewChecker(baseURL, token string) *Checker {
	return &Checker{
		baseURL: baseURL,
		token:   token,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// Fixture is a fresh project with two characters and one catalog career.
type Fixture struct {
	ProjectID string
	Hero      model.Character
	Rival     model.Character
	Career    model.Career
}

// Seed creates a Fixture under projectID.
func (c *Checker) Seed(t *testing.T, projectID string) *Fixture {
	t.Helper()
	f := &Fixture{ProjectID: projectID}
	c.do(t, http.MethodPost, "/api/characters", map[string]any{"project_id": projectID, "name": "Li Wei"}, http.StatusCreated, &f.Hero)
	c.do(t, http.MethodPost, "/api/characters", map[string]any{"project_id": projectID, "name": "Zhao Min"}, http.StatusCreated, &f.Rival)
	c.do(t, http.MethodPost, "/api/careers", map[string]any{
		"project_id": projectID, "name": "Swordsman", "type": "main", "max_stage": 3,
	}, http.StatusCreated, &f.Career)
	return f
}

// CheckSinglePrimary: a character never has more than one primary identity,
// whether primaries are made by create or by set-primary.
func (c *Checker) CheckSinglePrimary(t *testing.T, f *Fixture) {
	first := c.createIdentity(t, f.Hero.ID, "Li Wei", true)
	second := c.createIdentity(t, f.Hero.ID, "Night Crow", true)
	c.assertOnePrimary(t, f.Hero.ID, second.ID)

	c.do(t, http.MethodPost, "/api/identities/"+first.ID+"/set-primary",
		map[string]any{"character_id": f.Hero.ID}, http.StatusOK, nil)
	c.assertOnePrimary(t, f.Hero.ID, first.ID)

	t.Run("SetPrimaryForWrongCharacterRejected", func(t *testing.T) {
		c.do(t, http.MethodPost, "/api/identities/"+second.ID+"/set-primary",
			map[string]any{"character_id": f.Rival.ID}, http.StatusBadRequest, nil)
		c.assertOnePrimary(t, f.Hero.ID, first.ID)
	})
}

// CheckAttachmentRules: a career or knower is attached to an identity at
// most once, and stages stay within the catalog career's range.
func (c *Checker) CheckAttachmentRules(t *testing.T, f *Fixture) {
	id := c.createIdentity(t, f.Hero.ID, "Wanderer", false)
	careers := "/api/identities/" + id.ID + "/careers"
	knowledge := "/api/identities/" + id.ID + "/knowledge"

	c.do(t, http.MethodPost, careers, map[string]any{"career_id": f.Career.ID, "career_type": "main"}, http.StatusCreated, nil)
	t.Run("DuplicateCareerRejected", func(t *testing.T) {
		c.do(t, http.MethodPost, careers, map[string]any{"career_id": f.Career.ID, "career_type": "main"}, http.StatusConflict, nil)
	})
	t.Run("StageZeroRejected", func(t *testing.T) {
		other := c.createIdentity(t, f.Hero.ID, "Drifter", false)
		c.do(t, http.MethodPost, "/api/identities/"+other.ID+"/careers",
			map[string]any{"career_id": f.Career.ID, "career_type": "main", "current_stage": 0}, http.StatusBadRequest, nil)
	})
	t.Run("StageAboveMaxRejected", func(t *testing.T) {
		c.do(t, http.MethodPut, careers+"/"+f.Career.ID, map[string]any{"current_stage": f.Career.MaxStage + 1}, http.StatusBadRequest, nil)
	})

	body := map[string]any{"knower_character_id": f.Rival.ID, "knowledge_level": "partial", "since_when": "chapter 1"}
	c.do(t, http.MethodPost, knowledge, body, http.StatusCreated, nil)
	t.Run("DuplicateKnowerRejected", func(t *testing.T) {
		c.do(t, http.MethodPost, knowledge, body, http.StatusConflict, nil)
	})
}

// CheckDeleteCascades: deleting an identity removes its careers and
// knowledge records with it.
func (c *Checker) CheckDeleteCascades(t *testing.T, f *Fixture) {
	id := c.createIdentity(t, f.Rival.ID, "Masked Guest", false)
	c.do(t, http.MethodPost, "/api/identities/"+id.ID+"/careers",
		map[string]any{"career_id": f.Career.ID, "career_type": f.Career.Type}, http.StatusCreated, nil)
	c.do(t, http.MethodPost, "/api/identities/"+id.ID+"/knowledge",
		map[string]any{"knower_character_id": f.Hero.ID, "knowledge_level": "suspected", "since_when": "chapter 2"}, http.StatusCreated, nil)

	c.do(t, http.MethodDelete, "/api/identities/"+id.ID, nil, http.StatusOK, nil)

	c.do(t, http.MethodGet, "/api/identities/"+id.ID, nil, http.StatusNotFound, nil)
	c.do(t, http.MethodGet, "/api/identities/"+id.ID+"/careers", nil, http.StatusNotFound, nil)
	c.do(t, http.MethodGet, "/api/identities/"+id.ID+"/knowledge", nil, http.StatusNotFound, nil)
}

func (c *Checker) createIdentity(t *testing.T, characterID, name string, primary bool) model.Identity {
	t.Helper()
	var out model.Identity
	c.do(t, http.MethodPost, "/api/identities", map[string]any{
		"character_id":  characterID,
		"name":          name,
		"identity_type": "public",
		"is_primary":    primary,
	}, http.StatusCreated, &out)
	return out
}

func (c *Checker) assertOnePrimary(t *testing.T, characterID, wantID string) {
	t.Helper()
	var ids []model.Identity
	c.do(t, http.MethodGet, "/api/identities/character/"+characterID, nil, http.StatusOK, &ids)
	var primaries []string
	for _, id := range ids {
		if id.IsPrimary {
			primaries = append(primaries, id.ID)
		}
	}
	assert.Equal(t, []string{wantID}, primaries, "character %s must have exactly one primary", characterID)
}

// do sends body as JSON, asserts the status and decodes into out when given.
func (c *Checker) do(t *testing.T, method, path string, body any, expectedStatus int, out any) {
	t.Helper()
	var reqBody []byte
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reqBody = b
	}

	req, err := http.NewRequest(method, c.baseURL+path, bytes.NewReader(reqBody))
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Equal(t, expectedStatus, resp.StatusCode, fmt.Sprintf("%s %s: %s", method, path, respBody))

	if out != nil {
		require.NoError(t, json.Unmarshal(respBody, out))
	}
}
