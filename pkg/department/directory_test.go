package department

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleMapping = `{
  "examinations": {"name": "Examinations Department", "email": "exams@examplecollege.edu", "location": "Admin Block, Room 101"},
  "Library": {"name": "Central Library", "email": "library@examplecollege.edu", "location": "Library Building"},
  "default": {"name": "Student Help Desk", "email": "help@examplecollege.edu", "location": "Main Reception"}
}`

func TestParseAndLookup(t *testing.T) {
	dir, err := Parse([]byte(sampleMapping))
	require.NoError(t, err)

	assert.Equal(t, []string{"examinations", "library"}, dir.Keywords())

	c, matched := dir.Lookup(` "Examinations" `)
	assert.True(t, matched)
	assert.Equal(t, "Examinations Department", c.Name)
	assert.Equal(t, "exams@examplecollege.edu", c.Email)

	c, matched = dir.Lookup("parking")
	assert.False(t, matched)
	assert.Equal(t, "Student Help Desk", c.Name)

	c, matched = dir.Lookup("default")
	assert.True(t, matched)
	assert.Equal(t, "Student Help Desk", c.Name)
}

func TestParseRequiresDefault(t *testing.T) {
	_, err := Parse([]byte(`{"library": {"name": "Central Library"}}`))
	assert.ErrorIs(t, err, ErrNoDefault)
}

func TestParseInvalidJSON(t *testing.T) {
	_, err := Parse([]byte(`[`))
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mapping.json")
	require.NoError(t, os.WriteFile(path, []byte(sampleMapping), 0o644))

	dir, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, dir.Keywords(), 2)

	_, err = Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestKeywordsIsACopy(t *testing.T) {
	dir, err := Parse([]byte(sampleMapping))
	require.NoError(t, err)

	kw := dir.Keywords()
	kw[0] = "mutated"
	assert.Equal(t, "examinations", dir.Keywords()[0])
}

func TestNormalizeKeyword(t *testing.T) {
	assert.Equal(t, "examinations", NormalizeKeyword("  'Examinations'.\n"))
	assert.Equal(t, "default", NormalizeKeyword("`DEFAULT`"))
}
