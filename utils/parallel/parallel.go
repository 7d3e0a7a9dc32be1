// Package parallel 数据并行工具
package parallel

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// GoMap 并行映射
// 功能：对输入切片的每个元素并行执行f，按原顺序返回结果
// 参数：in-输入切片，f-映射函数
// 返回：与输入等长的结果切片
func GoMap[T, R any](in []T, f func(T) R) []R {
	out := make([]R, len(in))
	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, v := range in {
		g.Go(func() error {
			out[i] = f(v)
			return nil
		})
	}
	_ = g.Wait()
	return out
}

// GoFor 并行遍历
func GoFor[T any](in []T, f func(T)) {
	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for _, v := range in {
		g.Go(func() error {
			f(v)
			return nil
		})
	}
	_ = g.Wait()
}

// GoForIndex 以有限并发按下标并行遍历
// 功能：最多workers个协程并行执行f(i)，返回第一个错误；workers<=0时使用GOMAXPROCS
// 参数：ctx-上下文，n-元素个数，workers-并发上限，f-处理函数
func GoForIndex(ctx context.Context, n, workers int, f func(ctx context.Context, i int) error) error {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range n {
		g.Go(func() error {
			return f(gctx, i)
		})
	}
	return g.Wait()
}
