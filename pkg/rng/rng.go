package rng

import (
	"math/rand"
	"sync"
)

// Source источник случайности движка.
// Инжектится во все компоненты, которым нужна случайность,
// чтобы тесты могли зафиксировать последовательность бросков
type Source interface {
	Float64() float64 // [0,1)
	Intn(n int) int
}

// Источник поверх глобального генератора math/rand (он потокобезопасен)
type globalSource struct{}

func (globalSource) Float64() float64 { return rand.Float64() }
func (globalSource) Intn(n int) int   { return rand.Intn(n) }

// Default возвращает источник по умолчанию
func Default() Source {
	return globalSource{}
}

// Седированный источник для воспроизводимых прогонов.
// *rand.Rand не потокобезопасен, поэтому закрываем мьютексом
type seededSource struct {
	mtx sync.Mutex
	r   *rand.Rand
}

// NewSeeded создает детерминированный источник с заданным сидом
func NewSeeded(seed int64) Source {
	return &seededSource{r: rand.New(rand.NewSource(seed))}
}

func (s *seededSource) Float64() float64 {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	return s.r.Float64()
}

func (s *seededSource) Intn(n int) int {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	return s.r.Intn(n)
}
