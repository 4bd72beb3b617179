package cache

import (
	"crypto/md5"
	"encoding/hex"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/any-hub/diskcache/internal/converter"
)

func TestNewHandlerValidatesArguments(t *testing.T) {
	engine := newTestEngine(t)
	disk := engine.NewDisk(testDir)

	_, err := NewHandler[string](nil, "p_", SerializableCodec[string]{})
	assert.ErrorIs(t, err, ErrInvalidArgument)
	_, err = NewHandler[string](disk, "", SerializableCodec[string]{})
	assert.ErrorIs(t, err, ErrInvalidArgument)
	_, err = NewHandler[string](disk, "p_", nil)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestPutGetRoundTrip(t *testing.T) {
	engine := newTestEngine(t)
	handler := newStringHandler(t, engine.NewDisk(testDir))

	ok, err := handler.Put("greeting", "hello")
	require.NoError(t, err)
	require.True(t, ok)

	got, ok, err := handler.Get("greeting")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "hello", got)

	ok, err = handler.Put("greeting", "bonjour")
	require.NoError(t, err)
	require.True(t, ok)
	got, _, _ = handler.Get("greeting")
	assert.Equal(t, "bonjour", got)
}

func TestObjectScenarioWritesOneHashedFile(t *testing.T) {
	engine := newTestEngine(t)
	disk := engine.NewDisk(testDir).SetObjectConverter(converter.JSONConverter{})
	handler, err := NewObjectHandler[profile](disk)
	require.NoError(t, err)

	ok, err := handler.Put("user.profile", profile{Name: "ann"})
	require.NoError(t, err)
	require.True(t, ok)

	got, ok, err := handler.Get("user.profile")
	require.NoError(t, err)
	require.True(t, ok)
	if diff := cmp.Diff(profile{Name: "ann"}, got); diff != "" {
		t.Fatalf("unexpected profile (-want +got):\n%s", diff)
	}

	sum := md5.Sum([]byte("user.profile"))
	keys, err := disk.Keys()
	require.NoError(t, err)
	assert.Equal(t, []string{ObjectPrefix + hex.EncodeToString(sum[:])}, keys)
}

func TestGetMissingAndDefault(t *testing.T) {
	engine := newTestEngine(t)
	handler, err := NewIntHandler(engine.NewDisk(testDir))
	require.NoError(t, err)

	_, ok, err := handler.Get("absent")
	require.NoError(t, err)
	assert.False(t, ok)

	got, err := handler.GetOr("absent", 7)
	require.NoError(t, err)
	assert.Equal(t, 7, got)

	_, err = handler.Put("present", 3)
	require.NoError(t, err)
	got, err = handler.GetOr("present", 7)
	require.NoError(t, err)
	assert.Equal(t, 3, got)
}

func TestRemoveIsIdempotent(t *testing.T) {
	engine := newTestEngine(t)
	handler := newStringHandler(t, engine.NewDisk(testDir))

	_, err := handler.Put("k", "v")
	require.NoError(t, err)

	ok, err := handler.Remove("k")
	require.NoError(t, err)
	assert.True(t, ok)

	_, found, err := handler.Get("k")
	require.NoError(t, err)
	assert.False(t, found)

	ok, err = handler.Remove("k")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestPutNilRemoves(t *testing.T) {
	engine := newTestEngine(t)
	disk := engine.NewDisk(testDir).SetMemorySupport(true)
	handler, err := NewSerializableHandler[*profile](disk)
	require.NoError(t, err)

	_, err = handler.Put("p", &profile{Name: "ann", Age: 3})
	require.NoError(t, err)
	require.Equal(t, 1, engine.MemoryLen())

	ok, err := handler.Put("p", nil)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 0, engine.MemoryLen())

	_, found, err := handler.Get("p")
	require.NoError(t, err)
	assert.False(t, found)

	ok, err = handler.Put("never-written", nil)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestEmptyKeyIsRejectedBeforeIO(t *testing.T) {
	fsys := &countingFs{Fs: afero.NewMemMapFs()}
	engine := newTestEngine(t, WithFileSystem(fsys))
	handler := newStringHandler(t, engine.NewDisk(testDir))

	_, err := handler.Put("", "v")
	assert.ErrorIs(t, err, ErrInvalidArgument)
	_, _, err = handler.Get("")
	assert.ErrorIs(t, err, ErrInvalidArgument)
	_, err = handler.Remove("")
	assert.ErrorIs(t, err, ErrInvalidArgument)

	exists, err := afero.DirExists(fsys, testDir)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestWriteFailureIsSoftAndSkipsMemory(t *testing.T) {
	engine := newTestEngine(t, WithFileSystem(afero.NewReadOnlyFs(afero.NewMemMapFs())))
	disk := engine.NewDisk(testDir).SetMemorySupport(true)
	handler := newStringHandler(t, disk)

	ok, err := handler.Put("k", "v")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 0, engine.MemoryLen())

	_, found, err := handler.Get("k")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRemoveFailureReportsFalse(t *testing.T) {
	base := afero.NewMemMapFs()
	writer := newStringHandler(t, newTestEngine(t, WithFileSystem(base)).NewDisk(testDir))
	_, err := writer.Put("k", "v")
	require.NoError(t, err)

	engine := newTestEngine(t, WithFileSystem(failingRemoveFs{Fs: base}))
	handler := newStringHandler(t, engine.NewDisk(testDir))

	ok, err := handler.Remove("k")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = handler.Remove("missing")
	require.NoError(t, err)
	assert.True(t, ok, "nothing to delete still succeeds")
}

func TestCorruptEntryReadsAsAbsent(t *testing.T) {
	engine := newTestEngine(t)
	disk := engine.NewDisk(testDir)
	handler := newStringHandler(t, disk)

	fileKey, err := RealKey("k", StringPrefix, true)
	require.NoError(t, err)
	require.NoError(t, engine.FileSystem().MkdirAll(testDir, 0o755))
	require.NoError(t, afero.WriteFile(engine.FileSystem(), filepath.Join(testDir, fileKey), []byte{0xc1, 0xc1}, 0o644))

	_, found, err := handler.Get("k")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestDirectoryIsNotAnEntry(t *testing.T) {
	engine := newTestEngine(t)
	handler := newStringHandler(t, engine.NewDisk(testDir))

	fileKey, err := RealKey("k", StringPrefix, true)
	require.NoError(t, err)
	require.NoError(t, engine.FileSystem().MkdirAll(filepath.Join(testDir, fileKey), 0o755))

	_, found, err := handler.Get("k")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestPrefixesKeepHandlersApart(t *testing.T) {
	engine := newTestEngine(t)
	disk := engine.NewDisk(testDir).SetMemorySupport(true)
	strs := newStringHandler(t, disk)
	ints, err := NewIntHandler(disk)
	require.NoError(t, err)

	_, err = strs.Put("shared", "text")
	require.NoError(t, err)
	_, err = ints.Put("shared", 12)
	require.NoError(t, err)

	s, _, err := strs.Get("shared")
	require.NoError(t, err)
	i, _, err := ints.Get("shared")
	require.NoError(t, err)
	assert.Equal(t, "text", s)
	assert.Equal(t, 12, i)

	keys, err := disk.Keys()
	require.NoError(t, err)
	assert.Len(t, keys, 2)
	assert.Equal(t, 2, engine.MemoryLen())
}

func TestTypedHandlersRoundTrip(t *testing.T) {
	engine := newTestEngine(t)
	disk := engine.NewDisk(testDir)

	i64, err := NewInt64Handler(disk)
	require.NoError(t, err)
	f64, err := NewFloat64Handler(disk)
	require.NoError(t, err)
	flag, err := NewBoolHandler(disk)
	require.NoError(t, err)

	_, err = i64.Put("n", int64(1)<<40)
	require.NoError(t, err)
	_, err = f64.Put("n", 3.25)
	require.NoError(t, err)
	_, err = flag.Put("n", false)
	require.NoError(t, err)

	gotI, _, _ := i64.Get("n")
	gotF, _, _ := f64.Get("n")
	gotB, found, _ := flag.Get("n")
	assert.Equal(t, int64(1)<<40, gotI)
	assert.Equal(t, 3.25, gotF)
	assert.True(t, found)
	assert.False(t, gotB)
}
