package cache

import (
	"reflect"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/any-hub/diskcache/internal/converter"
)

type settings struct {
	Theme    string `json:"theme"`
	FontSize int    `json:"font_size"`
}

func TestTypeKey(t *testing.T) {
	want := "github.com/any-hub/diskcache/internal/cache.settings"
	assert.Equal(t, want, TypeKey(reflect.TypeOf(settings{})))
	assert.Equal(t, want, TypeKey(reflect.TypeOf(&settings{})))
	assert.Equal(t, want, typeKeyOf[*settings]())
	assert.Equal(t, "string", TypeKey(reflect.TypeOf("")))
	assert.Equal(t, "[]int", TypeKey(reflect.TypeOf([]int{})))
}

func TestObjectCacheRoundTrip(t *testing.T) {
	engine := newTestEngine(t)
	engine.SetGlobalObjectConverter(converter.JSONConverter{})
	oc := NewObjectCache(engine.NewDisk(testDir))

	want := settings{Theme: "dark", FontSize: 14}
	ok, err := oc.Put(want)
	require.NoError(t, err)
	require.True(t, ok)

	got, found, err := GetObject[settings](oc)
	require.NoError(t, err)
	require.True(t, found)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("settings mismatch (-want +got):\n%s", diff)
	}

	ptr, found, err := GetObject[*settings](oc)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, want, *ptr)
}

func TestObjectCacheOneInstancePerType(t *testing.T) {
	engine := newTestEngine(t)
	disk := engine.NewDisk(testDir).SetObjectConverter(converter.JSONConverter{}).SetMemorySupport(true)
	oc := NewObjectCache(disk)

	_, err := oc.Put(settings{Theme: "light"})
	require.NoError(t, err)
	_, err = oc.Put(&settings{Theme: "dark"})
	require.NoError(t, err)
	_, err = oc.Put(profile{Name: "ann"})
	require.NoError(t, err)

	keys, err := disk.Keys()
	require.NoError(t, err)
	assert.Len(t, keys, 2)

	got, _, err := GetObject[*settings](oc)
	require.NoError(t, err)
	assert.Equal(t, "dark", got.Theme)

	engine.ClearMemory()
	fromDisk, _, err := GetObject[settings](oc)
	require.NoError(t, err)
	assert.Equal(t, "dark", fromDisk.Theme)
}

func TestObjectCachePutNilFails(t *testing.T) {
	engine := newTestEngine(t)
	disk := engine.NewDisk(testDir).SetObjectConverter(converter.JSONConverter{})
	oc := NewObjectCache(disk)

	ok, err := oc.Put(nil)
	require.NoError(t, err)
	assert.False(t, ok)

	var missing *settings
	ok, err = oc.Put(missing)
	require.NoError(t, err)
	assert.False(t, ok)

	keys, err := disk.Keys()
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestObjectCacheRemove(t *testing.T) {
	engine := newTestEngine(t)
	oc := NewObjectCache(engine.NewDisk(testDir).SetObjectConverter(converter.MsgpackConverter{}))

	_, err := oc.Put(settings{Theme: "dark"})
	require.NoError(t, err)

	ok, err := RemoveObject[settings](oc)
	require.NoError(t, err)
	assert.True(t, ok)

	_, found, err := GetObject[settings](oc)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestObjectHandlerWithoutConverter(t *testing.T) {
	engine := newTestEngine(t)
	oc := NewObjectCache(engine.NewDisk(testDir))

	_, err := oc.Put(settings{Theme: "dark"})
	assert.ErrorIs(t, err, ErrConfiguration)
}

func TestObjectHandlerEncryptedYAML(t *testing.T) {
	engine := newTestEngine(t)
	disk := engine.NewDisk(testDir).
		SetObjectConverter(converter.YAMLConverter{}).
		SetEncrypt(true).
		SetEncryptConverter(xorCipher{key: 0x33})
	handler, err := NewObjectHandler[settings](disk)
	require.NoError(t, err)

	_, err = handler.Put("prefs", settings{Theme: "solarized", FontSize: 12})
	require.NoError(t, err)

	envelope := readEnvelope(t, engine, ObjectPrefix, "prefs")
	assert.True(t, envelope.IsEncrypted)
	assert.NotContains(t, envelope.Data, "solarized")

	got, _, err := handler.Get("prefs")
	require.NoError(t, err)
	assert.Equal(t, settings{Theme: "solarized", FontSize: 12}, got)
}
