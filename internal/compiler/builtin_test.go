package compiler

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/jmgilman/go/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Norgate-AV/kfxc/internal/artifact"
	"github.com/Norgate-AV/kfxc/internal/backend"
	"github.com/Norgate-AV/kfxc/internal/cache"
)

func writeEffect(t *testing.T, dir, name, source string, mtime time.Time) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(source), 0o644))
	require.NoError(t, os.Chtimes(path, mtime, mtime))

	return path
}

func TestBuiltin_Compile(t *testing.T) {
	dir := t.TempDir()
	src := writeEffect(t, dir, "Color.wgsl", colorEffect, time.Unix(1700000000, 0))

	profile := mustResolve(t, "pc_dx11")
	b := backend.New(profile)
	fsys := osfs.New("/")

	require.NoError(t, NewBuiltin(fsys, profile, b, nil).Compile(context.Background(), src))

	h, p, err := artifact.Read(fsys, filepath.Join(dir, "Color.kfx"))
	require.NoError(t, err)
	assert.Equal(t, artifact.Expect(b), h.Identity())
	assert.Equal(t, uint64(1700000000), h.SourceTimestamp)

	require.NotNil(t, p)
	assert.Equal(t, "pc_dx11", p.Platform)
	assert.Equal(t, "D3D11", p.Backend)
	assert.Equal(t, "11_0", p.FeatureLevel)
	assert.Len(t, p.Shaders, 2)

	digest := cache.HashBytes([]byte(colorEffect))
	assert.Equal(t, digest[:], p.SourceDigest)
}

func TestBuiltin_CompileProducesReusableArtifact(t *testing.T) {
	dir := t.TempDir()
	src := writeEffect(t, dir, "Color.wgsl", colorEffect, time.Unix(1700000000, 0))

	profile := mustResolve(t, "android_tegra3")
	b := backend.New(profile)
	fsys := osfs.New("/")

	require.NoError(t, NewBuiltin(fsys, profile, b, nil).Compile(context.Background(), src))

	snapshot, err := cache.ReadSource(fsys, src)
	require.NoError(t, err)

	d := cache.NewValidator(fsys).Decide(snapshot, artifact.PathFor(src), artifact.Expect(b))
	assert.True(t, d.Reuse(), d.Reason)
}

func TestBuiltin_CompileOverwritesExisting(t *testing.T) {
	dir := t.TempDir()
	src := writeEffect(t, dir, "Color.wgsl", colorEffect, time.Unix(1700000500, 0))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Color.kfx"), []byte("stale junk"), 0o644))

	profile := mustResolve(t, "pc_gl2")
	fsys := osfs.New("/")

	require.NoError(t, NewBuiltin(fsys, profile, backend.New(profile), nil).Compile(context.Background(), src))

	h, ok := artifact.TryReadHeader(fsys, filepath.Join(dir, "Color.kfx"))
	require.True(t, ok)
	assert.Equal(t, uint64(1700000500), h.SourceTimestamp)
}

func TestBuiltin_CompileErrors(t *testing.T) {
	profile := mustResolve(t, "pc_gl4")
	b := backend.New(profile)
	fsys := osfs.New("/")

	t.Run("invalid source", func(t *testing.T) {
		dir := t.TempDir()
		src := writeEffect(t, dir, "Broken.wgsl", "@vertex\nfn main( {\n", time.Unix(1, 0))

		err := NewBuiltin(fsys, profile, b, nil).Compile(context.Background(), src)
		require.Error(t, err)
		assert.Equal(t, errors.CodeBuildFailed, errors.GetCode(err))

		_, statErr := os.Stat(filepath.Join(dir, "Broken.kfx"))
		assert.True(t, os.IsNotExist(statErr), "no artifact should be written")
	})

	t.Run("missing source", func(t *testing.T) {
		err := NewBuiltin(fsys, profile, b, nil).Compile(context.Background(), filepath.Join(t.TempDir(), "missing.wgsl"))
		require.Error(t, err)
		assert.Equal(t, errors.CodeBuildFailed, errors.GetCode(err))
	})

	t.Run("cancelled", func(t *testing.T) {
		src := writeEffect(t, t.TempDir(), "Color.wgsl", colorEffect, time.Unix(1, 0))

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := NewBuiltin(fsys, profile, b, nil).Compile(ctx, src)
		require.Error(t, err)
		assert.Equal(t, errors.CodeBuildFailed, errors.GetCode(err))
	})
}

func TestFunc(t *testing.T) {
	var got string
	var c Compiler = Func(func(_ context.Context, sourcePath string) error {
		got = sourcePath
		return nil
	})

	require.NoError(t, c.Compile(context.Background(), "/fx/a.wgsl"))
	assert.Equal(t, "/fx/a.wgsl", got)
}
