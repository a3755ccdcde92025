package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrations_Ordered(t *testing.T) {
	migrations, err := Migrations()
	require.NoError(t, err)
	require.Len(t, migrations, 2)

	assert.Equal(t, "0001_users", migrations[0].Version)
	assert.Equal(t, "0002_resume_text", migrations[1].Version)
	assert.Contains(t, migrations[0].SQL, "CREATE TABLE IF NOT EXISTS users")
	assert.Contains(t, migrations[1].SQL, "resume_raw")
	assert.Contains(t, migrations[1].SQL, "resume_text")
}

func TestUser_HasResume(t *testing.T) {
	assert.False(t, (&User{}).HasResume())
	assert.True(t, (&User{ResumeRaw: "text"}).HasResume())
}
