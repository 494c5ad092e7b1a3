// Package shapes is loaded by the source extractor tests.
package shapes

import (
	"errors"
	"time"
)

type Color string

const (
	Red   Color = "red"
	Green Color = "green"
)

type UserID int

type Person struct {
	Name   string
	Age    int
	Tags   []string
	secret bool
}

type Tree struct {
	Value    int
	Children []*Tree
}

type Counter struct {
	n int
}

func (c *Counter) Next() int {
	c.n++
	return c.n
}

func (c *Counter) reset() { c.n = 0 }

func Add(a, b int) int { return a + b }

func Paint(p Person, c Color) (Color, error) {
	if p.Name == "" {
		return "", errors.New("anonymous")
	}
	return c, nil
}

func Index(words []string, seen map[string]struct{}, counts map[string]int) (map[string]int, int) {
	return counts, len(words) + len(seen)
}

func Since(t time.Time, id *UserID, pair [2]float64) float64 {
	return time.Since(t).Seconds() + pair[0]
}

func First[T any](xs []T) T { return xs[0] }

func Walk(t Tree) int { return t.Value }

func Notify(ch chan int) {}

func Flush() error { return nil }
