package input

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/tsinghua-fib-lab/trace-postprocess/mapdata"
	"github.com/tsinghua-fib-lab/trace-postprocess/trace"
	"github.com/tsinghua-fib-lab/trace-postprocess/utils/config"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Input 输入数据
// 功能：存储后处理所需的地图与原始快照序列
type Input struct {
	Map   *mapdata.Map
	Trace []trace.Snapshot
}

// Init 加载数据
// 功能：根据配置加载地图与原始快照序列
// 参数：ctx-上下文（用于MongoDB访问），config-配置对象
// 返回：加载完成的输入数据
// 算法说明：
// 1. 地图：配置了文件时从JSON文件读取，否则从MongoDB的db.col读取
// 2. 原始快照序列：从JSON文件读取
// 说明：加载失败时返回错误，由调用方决定是否终止
func Init(ctx context.Context, config config.Config) (*Input, error) {
	res := &Input{}

	if config.Input.Map.File != "" {
		m, err := loadJSON[mapdata.Map](config.Input.Map.File)
		if err != nil {
			return nil, errors.Wrap(err, "failed to load map from file")
		}
		res.Map = m
	} else {
		if config.Input.URI == "" {
			return nil, errors.New("neither map file nor mongo uri is configured")
		}
		client, err := newMongoClient(ctx, config.Input.URI)
		if err != nil {
			return nil, err
		}
		defer func() {
			dctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = client.Disconnect(dctx)
		}()
		res.Map, err = LoadMap(ctx, getMongoColl(client, config.Input.Map), config.Input.Map.Name)
		if err != nil {
			return nil, err
		}
	}
	if res.Map.Name == "" {
		res.Map.Name = config.Input.Map.Name
	}
	log.Infof("map %q: %d lanes, %d roads, %d junctions, %d crosswalks, %d stop signs, %d signals",
		res.Map.Name, len(res.Map.Lane), len(res.Map.Road), len(res.Map.Junction),
		len(res.Map.Crosswalk), len(res.Map.StopSign), len(res.Map.Signal))

	if config.Input.Trace.File == "" {
		return nil, errors.New("trace file is not configured")
	}
	raw, err := loadJSON[[]trace.Snapshot](config.Input.Trace.File)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load trace from file")
	}
	res.Trace = *raw
	log.Infof("trace: %d snapshots", len(res.Trace))
	return res, nil
}

// LoadMap 从MongoDB集合加载地图
// 功能：集合中每个文档为一个地图元素，形如{class: "lane", data: {...}}，按class分发到对应字段
// 参数：ctx-上下文，coll-集合，name-地图名（非空时按name字段筛选）
// 返回：地图数据
// 说明：未知class的文档被忽略并记录警告
func LoadMap(ctx context.Context, coll *mongo.Collection, name string) (*mapdata.Map, error) {
	filter := bson.M{}
	if name != "" {
		filter["name"] = name
	}
	log.Infof("start fetching from %s.%s", coll.Database().Name(), coll.Name())
	cur, err := coll.Find(ctx, filter)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query map collection")
	}
	defer cur.Close(ctx)

	m := &mapdata.Map{Name: name}
	for cur.Next(ctx) {
		if err := decodeMapDocument(m, cur.Current); err != nil {
			return nil, err
		}
	}
	if err := cur.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate map collection")
	}
	log.Infof("finish fetching from %s.%s", coll.Database().Name(), coll.Name())
	return m, nil
}

// decodeMapDocument 解析单个地图元素文档并追加到m中
func decodeMapDocument(m *mapdata.Map, raw bson.Raw) error {
	class, ok := raw.Lookup("class").StringValueOK()
	if !ok {
		return errors.Errorf("map document without class: %v", raw)
	}
	data := raw.Lookup("data")
	var err error
	switch class {
	case "header":
		err = data.Unmarshal(&m.Header)
	case "lane":
		err = appendDecoded(data, &m.Lane)
	case "road":
		err = appendDecoded(data, &m.Road)
	case "junction":
		err = appendDecoded(data, &m.Junction)
	case "crosswalk":
		err = appendDecoded(data, &m.Crosswalk)
	case "stop_sign":
		err = appendDecoded(data, &m.StopSign)
	case "signal":
		err = appendDecoded(data, &m.Signal)
	default:
		log.Warnf("ignore map document with unknown class %s", class)
	}
	return errors.Wrapf(err, "failed to decode %s", class)
}

func appendDecoded[T any](data bson.RawValue, list *[]T) error {
	var v T
	if err := data.Unmarshal(&v); err != nil {
		return err
	}
	*list = append(*list, v)
	return nil
}
