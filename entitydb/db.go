// Package entitydb 以句柄为键的实体存储，负责实体的生命周期和句柄唯一性。
package entitydb

import (
	"iter"
	"maps"
	"slices"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/zooyer/dxfengine/core"
	"github.com/zooyer/dxfengine/entities"
)

type DB struct {
	entities map[string]entities.Entity
	reserved map[string]struct{}
	gen      HandleGenerator
	logger   *log.Logger
}

// New 使用从 1 开始的十六进制计数器
func New(logger *log.Logger) *DB {
	return NewWithGenerator(NewCounter(), logger)
}

func NewWithGenerator(gen HandleGenerator, logger *log.Logger) *DB {
	if logger == nil {
		logger = log.Default()
	}
	return &DB{
		entities: make(map[string]entities.Entity),
		reserved: make(map[string]struct{}),
		gen:      gen,
		logger:   logger,
	}
}

func (db *DB) taken(h string) bool {
	if _, ok := db.entities[h]; ok {
		return true
	}
	_, ok := db.reserved[h]
	return ok
}

// nextFree 生成器给出的句柄可能已被占用(例如 $HANDSEED 过期)，循环直到空闲
func (db *DB) nextFree() string {
	for {
		if h := strings.ToUpper(db.gen.Next()); h != "" && h != "0" && !db.taken(h) {
			return h
		}
	}
}

// Add 注册实体并返回句柄。没有句柄时分配新句柄；
// 句柄已被另一个实体占用时不覆盖，改为分配新句柄并记录警告
func (db *DB) Add(e entities.Entity) (string, error) {
	if e == nil {
		return "", core.NewError(core.ErrCodeValue, "cannot add nil entity")
	}
	if !e.IsAlive() {
		return "", core.NewError(core.ErrCodeValue, "cannot add destroyed %s entity", e.Type())
	}

	h := strings.ToUpper(e.Handle())
	switch {
	case h == "":
		h = db.nextFree()
	case db.entities[h] == e:
		// 已注册
	case db.taken(h):
		fresh := db.nextFree()
		db.logger.Warn("handle conflict, assigned new handle", "type", e.Type(), "handle", h, "new", fresh)
		h = fresh
	}
	e.SetHandle(h)
	db.entities[h] = e

	if linked, ok := e.(entities.Linked); ok {
		for _, sub := range linked.SubEntities() {
			if _, err := db.Add(sub); err != nil {
				return h, err
			}
		}
	}
	return h, nil
}

// Reserve 标记被库外记录(CLASS 等)占用的句柄
func (db *DB) Reserve(h string) {
	if h = strings.ToUpper(h); h != "" {
		db.reserved[h] = struct{}{}
	}
}

func (db *DB) Get(h string) (entities.Entity, bool) {
	e, ok := db.entities[strings.ToUpper(h)]
	return e, ok
}

// Lookup 与 Get 相同，不存在时返回 NOT_FOUND 错误
func (db *DB) Lookup(h string) (entities.Entity, error) {
	if e, ok := db.Get(h); ok {
		return e, nil
	}
	return nil, core.NewError(core.ErrCodeNotFound, "handle %s not found", h)
}

// Delete 先调用 Destroy 让实体释放子实体，再从数据库移除实体及其子实体
func (db *DB) Delete(e entities.Entity) error {
	if e == nil {
		return core.NewError(core.ErrCodeValue, "cannot delete nil entity")
	}
	if !db.ContainsEntity(e) {
		return core.NewError(core.ErrCodeNotFound, "entity %s(%s) is not in the database", e.Type(), e.Handle())
	}
	var subs []entities.Entity
	if linked, ok := e.(entities.Linked); ok {
		subs = linked.SubEntities()
	}
	e.Destroy()
	delete(db.entities, e.Handle())
	for _, sub := range subs {
		if db.ContainsEntity(sub) {
			delete(db.entities, sub.Handle())
		}
	}
	return nil
}

// Duplicate 深拷贝并以新句柄注册，owner 保持不变
func (db *DB) Duplicate(e entities.Entity) (entities.Entity, error) {
	c := e.Clone()
	c.SetHandle("")
	if _, err := db.Add(c); err != nil {
		return nil, err
	}
	return c, nil
}

// Handles 按句柄数值升序
func (db *DB) Handles() []string {
	return slices.SortedFunc(maps.Keys(db.entities), compareHandles)
}

func (db *DB) Entities() []entities.Entity {
	handles := db.Handles()
	out := make([]entities.Entity, len(handles))
	for i, h := range handles {
		out[i] = db.entities[h]
	}
	return out
}

func (db *DB) All() iter.Seq2[string, entities.Entity] {
	return func(yield func(string, entities.Entity) bool) {
		for _, h := range db.Handles() {
			if !yield(h, db.entities[h]) {
				return
			}
		}
	}
}

func (db *DB) Contains(h string) bool {
	_, ok := db.entities[strings.ToUpper(h)]
	return ok
}

// ContainsEntity 通过实体自己的句柄判断
func (db *DB) ContainsEntity(e entities.Entity) bool {
	if e == nil {
		return false
	}
	return db.entities[strings.ToUpper(e.Handle())] == e
}

func (db *DB) Len() int { return len(db.entities) }

// Seed 设置生成器的起点，生成器不支持时忽略
func (db *DB) Seed(h string) error {
	if r, ok := db.gen.(interface{ Reset(string) error }); ok {
		return r.Reset(h)
	}
	return nil
}

// NextHandle 大于所有已用句柄的最小值，写入 $HANDSEED
func (db *DB) NextHandle() string {
	var top uint64
	for h := range db.entities {
		if n, err := ParseHandle(h); err == nil {
			top = max(top, n)
		}
	}
	for h := range db.reserved {
		if n, err := ParseHandle(h); err == nil {
			top = max(top, n)
		}
	}
	return FormatHandle(top + 1)
}

// Purge 移除已销毁的实体，返回移除数量
func (db *DB) Purge() int {
	n := 0
	for h, e := range db.entities {
		if !e.IsAlive() {
			delete(db.entities, h)
			n++
		}
	}
	return n
}
