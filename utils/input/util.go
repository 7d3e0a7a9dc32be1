package input

import (
	"context"
	"encoding/json"
	"os"

	"github.com/pkg/errors"
	"github.com/tsinghua-fib-lab/trace-postprocess/utils/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// newMongoClient 连接MongoDB
func newMongoClient(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect mongo")
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, errors.Wrap(err, "failed to ping mongo")
	}
	return client, nil
}

// getMongoColl 根据输入路径获取集合
func getMongoColl(client *mongo.Client, path config.InputPath) *mongo.Collection {
	return client.Database(path.GetDb()).Collection(path.GetColl())
}

// loadJSON 从JSON文件读取数据
func loadJSON[T any](file string) (*T, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, errors.Wrapf(err, "invalid json in %s", file)
	}
	return &v, nil
}
