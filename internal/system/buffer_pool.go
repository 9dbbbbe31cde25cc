package system

import (
	"image"
	"sync"
	"sync/atomic"
)

// FramePool переиспользует кадры *image.RGBA одного размера,
// чтобы не нагружать GC при рендеринге сотен кадров.
type FramePool struct {
	rect      image.Rectangle
	pool      sync.Pool
	allocated atomic.Int64
	gets      atomic.Int64
}

func NewFramePool(rect image.Rectangle) *FramePool {
	p := &FramePool{rect: rect}
	p.pool.New = func() any {
		p.allocated.Add(1)
		return image.NewRGBA(rect)
	}
	return p
}

// Get возвращает кадр из пула или создаёт новый. Содержимое кадра не очищается.
func (p *FramePool) Get() *image.RGBA {
	p.gets.Add(1)
	return p.pool.Get().(*image.RGBA)
}

// Put возвращает кадр в пул. Кадры другого размера отбрасываются.
func (p *FramePool) Put(img *image.RGBA) {
	if img == nil || img.Rect != p.rect {
		return
	}
	p.pool.Put(img)
}

// Stats returns how many frames were allocated and how many were reused.
// Reuse is derived from the totals, so it is exact once all workers are done.
func (p *FramePool) Stats() (allocated, reused int64) {
	allocated = p.allocated.Load()
	return allocated, p.gets.Load() - allocated
}
