package main

import (
	"errors"
	"testing"

	"github.com/npillmayer/glyphbuf/buffer"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, intp *Intp, line string) (error, bool) {
	cmd, err := intp.parseCommand(line)
	require.NoError(t, err)
	return intp.execute(cmd)
}

func TestParseCommand(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphbuf.cli")
	defer teardown()
	//
	intp := NewIntp()
	cmd, err := intp.parseCommand("merge:0:3 bogus quit print")
	require.NoError(t, err)
	assert.Equal(t, 3, cmd.count)
	assert.Equal(t, MERGE, cmd.op[0].code)
	assert.Equal(t, "0", cmd.op[0].arg)
	assert.Equal(t, "3", cmd.op[0].format)
	assert.Equal(t, HELP, cmd.op[1].code)
	assert.Equal(t, QUIT, cmd.op[2].code)
	assert.Equal(t, NOOP, cmd.op[3].code)
}

func TestReplaceSession(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphbuf.cli")
	defer teardown()
	//
	intp := NewIntp()
	err, quit := run(t, intp, "add:abc output next replace:2:7 swap")
	require.NoError(t, err)
	assert.False(t, quit)
	b := intp.buf
	require.Equal(t, 2, b.Len())
	assert.Equal(t, uint32('a'), b.Info()[0].Codepoint)
	assert.Equal(t, uint32(7), b.Info()[1].Codepoint)
	assert.Equal(t, uint32(1), b.Info()[1].Cluster)
	assert.Equal(t, buffer.NoOutput, b.OutputState())
}

func TestPreconditionsBecomeErrors(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphbuf.cli")
	defer teardown()
	//
	intp := NewIntp()
	err, _ := run(t, intp, "add:ab swap")
	var perr *buffer.PreconditionError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, "SwapBuffers", perr.Op)
	err, _ = run(t, intp, "level:sideways")
	assert.Error(t, err)
	err, _ = run(t, intp, "props:up")
	assert.True(t, errors.Is(err, buffer.ErrUnknownDirection))
}

func TestShapeSession(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphbuf.cli")
	defer teardown()
	//
	intp := NewIntp()
	require.NoError(t, intp.loadFont(""))
	err, quit := run(t, intp, "add:Hi_there shape freeze print quit")
	require.NoError(t, err)
	assert.True(t, quit)
	b := intp.buf
	assert.Equal(t, buffer.ContentTypeGlyphs, b.ContentType())
	assert.Equal(t, 8, b.Len())
	assert.True(t, b.HavePositions())
	assert.Greater(t, b.Pos()[0].XAdvance, int32(0))
}

func TestFreezeKeepsSession(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphbuf.cli")
	defer teardown()
	//
	intp := NewIntp()
	require.NoError(t, intp.loadFont(""))
	intp.buf.ClusterLevel = buffer.ClusterLevelCharacters
	intp.buf.Replacement = '?'
	err, _ := run(t, intp, "add:ab shape freeze")
	require.NoError(t, err)
	b := intp.buf
	assert.Equal(t, 2, b.Len())
	assert.Equal(t, buffer.ContentTypeGlyphs, b.ContentType())
	assert.True(t, b.HavePositions())
	assert.Equal(t, buffer.ClusterLevelCharacters, b.ClusterLevel)
	assert.Equal(t, '?', b.Replacement)
	assert.True(t, b.Flags&buffer.FlagBeginningOfText != 0)
	err, _ = run(t, intp, "freeze")
	require.NoError(t, err)
	assert.Equal(t, 2, intp.buf.Len(), "freezing twice keeps the session")
}
