package input

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tsinghua-fib-lab/trace-postprocess/mapdata"
	"github.com/tsinghua-fib-lab/trace-postprocess/utils/config"
	"go.mongodb.org/mongo-driver/bson"
)

func document(t *testing.T, class string, data any) bson.Raw {
	raw, err := bson.Marshal(bson.D{{Key: "class", Value: class}, {Key: "name", Value: "m"}, {Key: "data", Value: data}})
	require.NoError(t, err)
	return raw
}

func TestDecodeMapDocument(t *testing.T) {
	m := &mapdata.Map{}
	require.NoError(t, decodeMapDocument(m, document(t, "lane", mapdata.Lane{ID: mapdata.ID{ID: "l1"}, Turn: 2})))
	require.NoError(t, decodeMapDocument(m, document(t, "road", mapdata.Road{ID: mapdata.ID{ID: "r1"}})))
	require.NoError(t, decodeMapDocument(m, document(t, "header", mapdata.Header{Vendor: "test"})))
	require.NoError(t, decodeMapDocument(m, document(t, "stop_sign", mapdata.StopSign{ID: mapdata.ID{ID: "s1"}})))
	require.NoError(t, decodeMapDocument(m, document(t, "parking_space", bson.D{})))

	require.Len(t, m.Lane, 1)
	assert.Equal(t, "l1", m.Lane[0].ID.ID)
	assert.Equal(t, int32(2), m.Lane[0].Turn)
	require.Len(t, m.Road, 1)
	require.Len(t, m.StopSign, 1)
	assert.Equal(t, "test", m.Header.Vendor)

	raw, err := bson.Marshal(bson.D{{Key: "data", Value: bson.D{}}})
	require.NoError(t, err)
	assert.Error(t, decodeMapDocument(m, raw))
}

func TestInitFromFiles(t *testing.T) {
	dir := t.TempDir()
	mapFile := filepath.Join(dir, "map.json")
	traceFile := filepath.Join(dir, "trace.json")
	require.NoError(t, os.WriteFile(mapFile, []byte(`{"lane":[{"id":{"id":"l1"},"length":10}],"road":[],"junction":[]}`), 0o644))
	require.NoError(t, os.WriteFile(traceFile, []byte(`[{"timestamp":1,"ego":{"pose":{"heading":0.5}}},{"timestamp":2}]`), 0o644))

	c := config.Config{Input: config.Input{
		Map:   config.InputPath{File: mapFile, Name: "demo"},
		Trace: config.InputPath{File: traceFile},
	}}
	in, err := Init(context.Background(), c)
	require.NoError(t, err)
	assert.Equal(t, "demo", in.Map.Name)
	require.Len(t, in.Map.Lane, 1)
	assert.Equal(t, 10.0, in.Map.Lane[0].Length)
	require.Len(t, in.Trace, 2)
	assert.Equal(t, int64(2), in.Trace[1].Timestamp)
	assert.Equal(t, 0.5, in.Trace[0].Ego.Pose.Heading)
}

func TestInitErrors(t *testing.T) {
	_, err := Init(context.Background(), config.Config{})
	assert.Error(t, err)

	_, err = Init(context.Background(), config.Config{Input: config.Input{Map: config.InputPath{File: "does-not-exist.json"}}})
	assert.Error(t, err)

	dir := t.TempDir()
	mapFile := filepath.Join(dir, "map.json")
	require.NoError(t, os.WriteFile(mapFile, []byte(`{}`), 0o644))
	_, err = Init(context.Background(), config.Config{Input: config.Input{Map: config.InputPath{File: mapFile}}})
	assert.Error(t, err, "trace file missing")
}
