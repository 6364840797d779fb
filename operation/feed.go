package operation

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/oauth2"

	"task-man/client"
	"task-man/comm"
	"task-man/global"
	"task-man/model"
	"task-man/tools"
)

// GitHub 搜索接口最多只返回前 1000 条结果
const MaxSearchResults = 1000

// Searcher 是 feed 需要用到的 GitHub 接口
type Searcher interface {
	Login(ctx context.Context) (string, error)
	Search(ctx context.Context, q model.SearchQuery) (model.Page, error)
}

// SearcherFunc 根据凭证创建 Searcher
type SearcherFunc func(ctx context.Context, cred oauth2.TokenSource) (Searcher, error)

// Searchers 使用 client.Factory 创建 Searcher
func Searchers(f *client.Factory) SearcherFunc {
	return func(ctx context.Context, cred oauth2.TokenSource) (Searcher, error) {
		api, err := f.Connect(ctx, cred)
		if err != nil {
			return nil, err
		}
		return api, nil
	}
}

// Feed
// 一个 FilterQuery 对应的分页 issue 列表
// 状态：Idle -> Fetching(1) -> Accumulated -> Fetching(n+1) -> ... -> Exhausted
// 同一时刻最多只有一个请求，FilterQuery 变化时，需调用 Start 重新开始
type Feed struct {
	connect  SearcherFunc
	pageSize int
	retry    Retry

	mu sync.Mutex
	// 每次 Start 加一，用于丢弃过期的响应
	gen      uint64
	filter   model.FilterQuery
	pages    []model.Page
	started  bool
	hasMore  bool
	fetching bool
	// 收到 webhook 后置为 true，下次访问时重新开始
	stale    bool
	lastUsed time.Time
}

// Snapshot 是 feed 某一时刻的状态
type Snapshot struct {
	Filter   model.FilterQuery `json:"filter"`
	Items    []model.Issue     `json:"items"`
	Pages    int               `json:"pages"`
	Total    int               `json:"totalCount"`
	HasMore  bool              `json:"hasMore"`
	Fetching bool              `json:"fetching"`
}

func NewFeed(connect SearcherFunc, pageSize int, retry Retry) *Feed {
	return &Feed{
		connect:  connect,
		pageSize: pageSize,
		retry:    retry,
		lastUsed: time.Now(),
	}
}

// Start
// 清空已获取的数据，并获取第一页
// 如果有未完成的请求，其响应会被丢弃
func (f *Feed) Start(ctx context.Context, cred oauth2.TokenSource, filter model.FilterQuery) error {
	filter = filter.Normalize()
	if err := tools.Query.Validate(filter); err != nil {
		return err
	}

	f.mu.Lock()
	gen := f.reset(filter)
	f.mu.Unlock()

	_, err := f.fetch(ctx, cred, gen, filter, 1)
	return err
}

// Ensure
// 与 Start 相同，但 feed 可以直接复用时（见 Current）不做任何操作，返回 false
// 判断与重新开始在同一个锁内完成，并发调用时只会发起一次请求
func (f *Feed) Ensure(ctx context.Context, cred oauth2.TokenSource, filter model.FilterQuery) (bool, error) {
	filter = filter.Normalize()
	if err := tools.Query.Validate(filter); err != nil {
		return false, err
	}

	f.mu.Lock()
	f.lastUsed = time.Now()
	if f.current(filter) {
		f.mu.Unlock()
		return false, nil
	}
	gen := f.reset(filter)
	f.mu.Unlock()

	_, err := f.fetch(ctx, cred, gen, filter, 1)
	return true, err
}

// 清空数据，返回新的 generation，调用方需持有锁
func (f *Feed) reset(filter model.FilterQuery) uint64 {
	f.gen++
	f.filter = filter
	f.pages = nil
	f.started = true
	f.hasMore = true
	f.fetching = true
	f.stale = false
	f.lastUsed = time.Now()
	return f.gen
}

// FetchNext
// 获取下一页，返回是否获取成功
// 没有更多数据，或者已有请求未完成时，不做任何操作，返回 false
// 失败时保留已获取的数据，可以再次调用重试
func (f *Feed) FetchNext(ctx context.Context, cred oauth2.TokenSource) (bool, error) {
	f.mu.Lock()
	f.lastUsed = time.Now()
	if !f.started || !f.hasMore || f.fetching {
		f.mu.Unlock()
		return false, nil
	}
	f.fetching = true
	gen, filter, page := f.gen, f.filter, len(f.pages)+1
	f.mu.Unlock()

	return f.fetch(ctx, cred, gen, filter, page)
}

func (f *Feed) fetch(ctx context.Context, cred oauth2.TokenSource, gen uint64, filter model.FilterQuery, page int) (bool, error) {
	info := comm.InfoFrom(ctx)
	result, err := f.load(ctx, cred, filter, page)

	f.mu.Lock()
	defer f.mu.Unlock()

	// FilterQuery 已变化，丢弃
	if gen != f.gen {
		global.Sugar.Infow("feed fetch",
			"step", "discard stale response",
			"req id", info.ReqID,
			"filter", filter,
			"page", page)
		return false, nil
	}
	f.fetching = false
	if err != nil {
		global.Sugar.Errorw("feed fetch",
			"step", "load page",
			"req id", info.ReqID,
			"filter", filter,
			"page", page,
			"err", err.Error())
		return false, err
	}

	f.pages = append(f.pages, result)
	f.hasMore = hasMore(len(f.pages), result, f.pageSize)
	global.Sugar.Debugw("feed fetch",
		"step", "done",
		"req id", info.ReqID,
		"page", page,
		"total", result.TotalCount,
		"has more", f.hasMore)
	return true, nil
}

// 先获取用户名，再搜索
// 用户名每次都重新获取，获取失败时不进行搜索
func (f *Feed) load(ctx context.Context, cred oauth2.TokenSource, filter model.FilterQuery, page int) (model.Page, error) {
	const op = "feed.fetch"
	var result model.Page
	err := f.retry.Do(ctx, op, func() error {
		api, err := f.connect(ctx, cred)
		if err != nil {
			return err
		}
		login, err := api.Login(ctx)
		if err != nil {
			return err
		}
		q, err := tools.Query.Build(login, filter, page, f.pageSize)
		if err != nil {
			return err
		}
		result, err = api.Search(ctx, q)
		return err
	})
	if err != nil {
		var e *comm.Error
		if !errors.As(err, &e) {
			// 例如 ctx 被取消
			err = comm.E(comm.FetchFailed, op, err)
		}
		return model.Page{}, err
	}
	return result, nil
}

// 已获取的页数小于总页数时，还有下一页
// 空页视为没有更多数据
func hasMore(pages int, last model.Page, pageSize int) bool {
	if len(last.Items) == 0 {
		return false
	}
	total := last.TotalCount
	if total > MaxSearchResults {
		total = MaxSearchResults
	}
	return pages < (total+pageSize-1)/pageSize
}

// Items
// 按获取顺序拼接所有页的 issue，不做排序
func (f *Feed) Items() []model.Issue {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.items()
}

func (f *Feed) items() []model.Issue {
	n := 0
	for _, v := range f.pages {
		n += len(v.Items)
	}
	items := make([]model.Issue, 0, n)
	for _, v := range f.pages {
		items = append(items, v.Items...)
	}
	return items
}

// View 在已获取的数据上进行过滤和排序，不发起请求
func (f *Feed) View(refine model.FilterQuery) []model.Issue {
	return tools.Filter.Apply(f.Items(), refine)
}

// Snapshot 返回当前状态
func (f *Feed) Snapshot() Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	s := Snapshot{
		Filter:   f.filter,
		Items:    f.items(),
		Pages:    len(f.pages),
		HasMore:  f.started && f.hasMore,
		Fetching: f.fetching,
	}
	if len(f.pages) > 0 {
		s.Total = f.pages[len(f.pages)-1].TotalCount
	}
	return s
}

// HasMore 是否还有下一页
func (f *Feed) HasMore() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.started && f.hasMore
}

// Current
// 判断 feed 是否可以直接复用：已开始、FilterQuery 相同、未过期，且已获取到数据或正在获取
func (f *Feed) Current(filter model.FilterQuery) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastUsed = time.Now()
	return f.current(filter.Normalize())
}

func (f *Feed) current(filter model.FilterQuery) bool {
	return f.started && !f.stale && f.filter == filter && (len(f.pages) > 0 || f.fetching)
}

// MarkStale 标记为过期，下次访问时重新开始
func (f *Feed) MarkStale() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stale = true
}

// Stale 是否已过期
func (f *Feed) Stale() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stale
}

// IdleSince 返回最后一次被访问的时间
func (f *Feed) IdleSince() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastUsed
}
