package mcp

import (
	"context"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewServer(t *testing.T) {
	t.Run("nil library service returns error", func(t *testing.T) {
		ports := &Ports{Answer: &mockAnswerService{}}
		server, err := NewServer(ports)
		require.Error(t, err)
		assert.Nil(t, server)
		assert.ErrorIs(t, err, ErrMissingLibraryService)
	})

	t.Run("valid ports creates server", func(t *testing.T) {
		ports := &Ports{
			Library: &mockLibraryService{},
			Answer:  &mockAnswerService{},
		}
		server, err := NewServer(ports)
		require.NoError(t, err)
		assert.NotNil(t, server)
	})
}

func TestPorts_Validate(t *testing.T) {
	t.Run("nil library service returns error", func(t *testing.T) {
		ports := &Ports{}
		assert.ErrorIs(t, ports.Validate(), ErrMissingLibraryService)
	})

	t.Run("nil answer service returns error", func(t *testing.T) {
		ports := &Ports{Library: &mockLibraryService{}}
		assert.ErrorIs(t, ports.Validate(), ErrMissingAnswerService)
	})

	t.Run("ingest is optional", func(t *testing.T) {
		ports := &Ports{
			Library: &mockLibraryService{},
			Answer:  &mockAnswerService{},
		}
		assert.NoError(t, ports.Validate())
	})

	t.Run("all ports is valid", func(t *testing.T) {
		ports := &Ports{
			Ingest:  &mockIngestService{},
			Library: &mockLibraryService{},
			Answer:  &mockAnswerService{},
		}
		assert.NoError(t, ports.Validate())
	})
}

func TestServer_ListsToolsOverSession(t *testing.T) {
	ctx := context.Background()
	server := newTestServer(t, &Ports{Ingest: &mockIngestService{}})

	clientTransport, serverTransport := mcp.NewInMemoryTransports()
	serverSession, err := server.server.Connect(ctx, serverTransport, nil)
	require.NoError(t, err)
	defer serverSession.Close()

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "v0.0.1"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	defer session.Close()

	res, err := session.ListTools(ctx, nil)
	require.NoError(t, err)

	names := make([]string, 0, len(res.Tools))
	for _, tool := range res.Tools {
		names = append(names, tool.Name)
	}
	assert.ElementsMatch(t, []string{"ingest_video", "ask", "list_videos"}, names)
}

func TestServer_Handler(t *testing.T) {
	server := newTestServer(t, &Ports{})

	assert.NotNil(t, server.Handler())
}
