package browser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartSessionRequiresInitialize(t *testing.T) {
	manager := NewSessionManager()

	_, err := manager.StartSession("research", Config{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not initialized")
}

func TestStartSessionRejectsDuplicateNames(t *testing.T) {
	manager := NewSessionManager()
	manager.initialized = true
	manager.sessions["research"] = &Session{Name: "research"}

	_, err := manager.StartSession("research", Config{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestStartSessionEnforcesMaxSessions(t *testing.T) {
	manager := NewSessionManager()
	manager.initialized = true
	manager.SetMaxSessions(1)
	manager.sessions["first"] = &Session{Name: "first"}

	_, err := manager.StartSession("second", Config{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "maximum number of sessions")
}

func TestStartSessionFailsFastOnBadConfig(t *testing.T) {
	manager := NewSessionManager()
	manager.initialized = true

	_, err := manager.StartSession("bad", Config{Browser: "netscape"})

	var unsupported *UnsupportedConfigurationError
	require.ErrorAs(t, err, &unsupported)
}

func TestGetSessionNotFound(t *testing.T) {
	manager := NewSessionManager()

	_, err := manager.GetSession("ghost")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestListSessions(t *testing.T) {
	manager := NewSessionManager()
	assert.False(t, manager.HasSessions())
	assert.Empty(t, manager.ListSessions())

	manager.sessions["research"] = &Session{
		Name:        "research",
		BrowserKind: BrowserChromium,
		SizeClass:   SizeLaptop,
		CurrentURL:  "https://example.com",
	}

	assert.True(t, manager.HasSessions())
	infos := manager.ListSessions()
	require.Len(t, infos, 1)
	assert.Equal(t, "research", infos[0].Name)
	assert.Equal(t, SizeLaptop, infos[0].SizeClass)
	assert.Equal(t, "https://example.com", infos[0].CurrentURL)
}
