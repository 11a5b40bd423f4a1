package services

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/nomfood/storefront/app/models"
	"github.com/nomfood/storefront/app/repositories"
	"github.com/nomfood/storefront/pkg/apperr"
	"github.com/nomfood/storefront/pkg/paginate"
	"github.com/nomfood/storefront/pkg/queue"
)

var errStoreDown = errors.New("store down")

var fixedNow = time.Date(2024, 6, 1, 10, 30, 0, 0, time.UTC)

const (
	waitFor = 2 * time.Second
	tick    = 10 * time.Millisecond
)

func pinned() time.Time { return fixedNow }

// applySet round-trips doc through BSON so $set pairs land on the typed
// fields the same way the driver would decode them.
func applySet[T any](doc *T, set bson.D) error {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return err
	}
	var m bson.M
	if err := bson.Unmarshal(raw, &m); err != nil {
		return err
	}
	for _, e := range set {
		m[e.Key] = e.Value
	}
	if raw, err = bson.Marshal(m); err != nil {
		return err
	}
	var out T
	if err := bson.Unmarshal(raw, &out); err != nil {
		return err
	}
	*doc = out
	return nil
}

// ─── products ────────────────────────────────────────────────────────────────

type fakeProducts struct {
	mu        sync.Mutex
	items     map[primitive.ObjectID]*models.Product
	ratingErr error
	soldErr   error
	sold      [][]models.OrderItem
}

func newFakeProducts(ps ...*models.Product) *fakeProducts {
	f := &fakeProducts{items: map[primitive.ObjectID]*models.Product{}}
	for _, p := range ps {
		if p.ID.IsZero() {
			p.ID = primitive.NewObjectID()
		}
		f.items[p.ID] = p
	}
	return f
}

func (f *fakeProducts) List(_ context.Context, q repositories.ProductQuery) ([]models.Product, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Product{}
	for _, p := range f.items {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return pageOf(out, q.Page), int64(len(out)), nil
}

func (f *fakeProducts) Categories(context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	seen := map[string]bool{}
	var out []string
	for _, p := range f.items {
		if p.IsAvailable && !seen[p.Category] {
			seen[p.Category] = true
			out = append(out, p.Category)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (f *fakeProducts) Featured(_ context.Context, limit int) ([]models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Product
	for _, p := range f.items {
		if p.IsFeatured && p.IsAvailable && len(out) < limit {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakeProducts) FindByID(_ context.Context, id primitive.ObjectID) (*models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.items[id]
	if !ok {
		return nil, apperr.NotFound(msgProductNotFound)
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProducts) IncrementViews(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	f.mu.Lock()
	if p, ok := f.items[id]; ok {
		p.ViewCount++
	}
	f.mu.Unlock()
	return f.FindByID(ctx, id)
}

func (f *fakeProducts) Insert(_ context.Context, p *models.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p.ID = primitive.NewObjectID()
	cp := *p
	f.items[p.ID] = &cp
	return nil
}

func (f *fakeProducts) Update(ctx context.Context, id primitive.ObjectID, set bson.D) (*models.Product, error) {
	f.mu.Lock()
	p, ok := f.items[id]
	if !ok {
		f.mu.Unlock()
		return nil, apperr.NotFound(msgProductNotFound)
	}
	err := applySet(p, set)
	f.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return f.FindByID(ctx, id)
}

func (f *fakeProducts) Delete(_ context.Context, id primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.items[id]; !ok {
		return apperr.NotFound(msgProductNotFound)
	}
	delete(f.items, id)
	return nil
}

func (f *fakeProducts) SetRating(_ context.Context, id primitive.ObjectID, rating float64, count int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ratingErr != nil {
		return f.ratingErr
	}
	if p, ok := f.items[id]; ok {
		p.Rating, p.NumReviews = rating, count
	}
	return nil
}

func (f *fakeProducts) AddSold(_ context.Context, items []models.OrderItem) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.soldErr != nil {
		return f.soldErr
	}
	f.sold = append(f.sold, items)
	for _, it := range items {
		if p, ok := f.items[it.Product]; ok {
			p.SoldCount += it.Quantity
		}
	}
	return nil
}

// ─── orders ──────────────────────────────────────────────────────────────────

type fakeOrders struct {
	mu      sync.Mutex
	items   map[primitive.ObjectID]*models.Order
	inserts int
}

func newFakeOrders() *fakeOrders {
	return &fakeOrders{items: map[primitive.ObjectID]*models.Order{}}
}

func (f *fakeOrders) Insert(_ context.Context, o *models.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inserts++
	for _, existing := range f.items {
		if existing.OrderNumber != "" && existing.OrderNumber == o.OrderNumber {
			return apperr.Duplicate("orderNumber", "Mã đơn hàng đã tồn tại")
		}
	}
	o.ID = primitive.NewObjectID()
	cp := *o
	f.items[o.ID] = &cp
	return nil
}

func (f *fakeOrders) put(o models.Order) *models.Order {
	f.mu.Lock()
	defer f.mu.Unlock()
	if o.ID.IsZero() {
		o.ID = primitive.NewObjectID()
	}
	f.items[o.ID] = &o
	return &o
}

func (f *fakeOrders) FindByID(_ context.Context, id primitive.ObjectID) (*models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.items[id]
	if !ok {
		return nil, apperr.NotFound(msgOrderNotFound)
	}
	cp := *o
	return &cp, nil
}

func (f *fakeOrders) Transition(ctx context.Context, id primitive.ObjectID, from string, set bson.D, entry models.StatusChange) (*models.Order, error) {
	f.mu.Lock()
	o, ok := f.items[id]
	if !ok {
		f.mu.Unlock()
		return nil, apperr.NotFound(msgOrderNotFound)
	}
	if o.Status != from {
		f.mu.Unlock()
		return nil, apperr.InvalidState("Trạng thái đơn hàng đã thay đổi, vui lòng tải lại")
	}
	err := applySet(o, set)
	if err == nil {
		o.StatusHistory = append(o.StatusHistory, entry)
		o.UpdatedAt = entry.UpdatedAt
	}
	f.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return f.FindByID(ctx, id)
}

func (f *fakeOrders) ListByUser(_ context.Context, userID primitive.ObjectID, _ paginate.Params) ([]models.Order, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Order
	for _, o := range f.items {
		if o.User == userID {
			out = append(out, *o)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeOrders) List(context.Context, repositories.OrderQuery) ([]models.OrderView, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.OrderView
	for _, o := range f.items {
		out = append(out, models.OrderView{Order: *o})
	}
	return out, int64(len(out)), nil
}

func (f *fakeOrders) HasDelivered(_ context.Context, userID, productID primitive.ObjectID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, o := range f.items {
		if o.User == userID && o.Status == models.StatusDelivered && o.ContainsProduct(productID) {
			return true, nil
		}
	}
	return false, nil
}

// ─── reviews ─────────────────────────────────────────────────────────────────

type fakeReviews struct {
	mu    sync.Mutex
	items map[primitive.ObjectID]*models.Review
	// insertDup makes Insert fail as if the unique index fired.
	insertDup bool
}

func newFakeReviews() *fakeReviews {
	return &fakeReviews{items: map[primitive.ObjectID]*models.Review{}}
}

func (f *fakeReviews) FindByID(_ context.Context, id primitive.ObjectID) (*models.Review, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rv, ok := f.items[id]
	if !ok {
		return nil, apperr.NotFound(msgReviewNotFound)
	}
	cp := *rv
	return &cp, nil
}

func (f *fakeReviews) Exists(_ context.Context, userID, productID primitive.ObjectID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, rv := range f.items {
		if rv.User == userID && rv.Product == productID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeReviews) Insert(_ context.Context, rv *models.Review) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.insertDup {
		return apperr.Duplicate("product", "duplicate key")
	}
	rv.ID = primitive.NewObjectID()
	cp := *rv
	f.items[rv.ID] = &cp
	return nil
}

func (f *fakeReviews) Update(ctx context.Context, id primitive.ObjectID, set bson.D) (*models.Review, error) {
	f.mu.Lock()
	rv, ok := f.items[id]
	if !ok {
		f.mu.Unlock()
		return nil, apperr.NotFound(msgReviewNotFound)
	}
	err := applySet(rv, set)
	f.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return f.FindByID(ctx, id)
}

func (f *fakeReviews) Delete(_ context.Context, id primitive.ObjectID) (*models.Review, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rv, ok := f.items[id]
	if !ok {
		return nil, apperr.NotFound(msgReviewNotFound)
	}
	delete(f.items, id)
	return rv, nil
}

func (f *fakeReviews) ApprovedRatings(_ context.Context, productID primitive.ObjectID) ([]int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []int
	for _, rv := range f.items {
		if rv.Product == productID && rv.IsApproved {
			out = append(out, rv.Rating)
		}
	}
	return out, nil
}

func (f *fakeReviews) ListForProduct(_ context.Context, q repositories.ProductReviewQuery) ([]models.ReviewView, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.ReviewView
	for _, rv := range f.items {
		if rv.Product == q.Product && rv.IsApproved {
			out = append(out, models.ReviewView{Review: *rv})
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeReviews) RatingDistribution(_ context.Context, productID primitive.ObjectID) (map[int]int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := map[int]int64{1: 0, 2: 0, 3: 0, 4: 0, 5: 0}
	for _, rv := range f.items {
		if rv.Product == productID && rv.IsApproved {
			out[rv.Rating]++
		}
	}
	return out, nil
}

func (f *fakeReviews) List(context.Context, repositories.ReviewQuery) ([]models.ReviewView, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.ReviewView
	for _, rv := range f.items {
		out = append(out, models.ReviewView{Review: *rv})
	}
	return out, int64(len(out)), nil
}

// ─── users ───────────────────────────────────────────────────────────────────

type fakeUsers struct {
	mu      sync.Mutex
	items   map[primitive.ObjectID]*models.User
	touched map[primitive.ObjectID]time.Time
	now     time.Time
}

func newFakeUsers(us ...*models.User) *fakeUsers {
	f := &fakeUsers{items: map[primitive.ObjectID]*models.User{}, touched: map[primitive.ObjectID]time.Time{}, now: fixedNow}
	for _, u := range us {
		if u.ID.IsZero() {
			u.ID = primitive.NewObjectID()
		}
		f.items[u.ID] = u
	}
	return f
}

func (f *fakeUsers) FindByEmail(_ context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.items {
		if u.Email == strings.ToLower(email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, apperr.NotFound(msgUserNotFound)
}

func (f *fakeUsers) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.items[id]
	if !ok {
		return nil, apperr.NotFound(msgUserNotFound)
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsers) EmailTaken(_ context.Context, email string, except primitive.ObjectID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, u := range f.items {
		if u.Email == email && id != except {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUsers) Create(_ context.Context, u *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u.ID = primitive.NewObjectID()
	u.CreatedAt, u.UpdatedAt = f.now, f.now
	cp := *u
	f.items[u.ID] = &cp
	return nil
}

func (f *fakeUsers) Update(ctx context.Context, id primitive.ObjectID, set bson.D) (*models.User, error) {
	f.mu.Lock()
	u, ok := f.items[id]
	if !ok {
		f.mu.Unlock()
		return nil, apperr.NotFound(msgUserNotFound)
	}
	err := applySet(u, set)
	f.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return f.FindByID(ctx, id)
}

func (f *fakeUsers) TouchLogin(_ context.Context, id primitive.ObjectID, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.touched[id] = at
	return nil
}

func (f *fakeUsers) Delete(_ context.Context, id primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.items[id]; !ok {
		return apperr.NotFound(msgUserNotFound)
	}
	delete(f.items, id)
	return nil
}

func (f *fakeUsers) List(context.Context, repositories.UserQuery) ([]models.User, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.User
	for _, u := range f.items {
		out = append(out, *u)
	}
	return out, int64(len(out)), nil
}

// Count understands the isActive and createdAt filters used by Stats.
func (f *fakeUsers) Count(_ context.Context, filter bson.D) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, u := range f.items {
		if matchUser(u, filter) {
			n++
		}
	}
	return n, nil
}

func matchUser(u *models.User, filter bson.D) bool {
	for _, e := range filter {
		switch e.Key {
		case "isActive":
			if u.IsActive != e.Value.(bool) {
				return false
			}
		case "createdAt":
			from := e.Value.(bson.D)[0].Value.(time.Time)
			if u.CreatedAt.Before(from) {
				return false
			}
		}
	}
	return true
}

func (f *fakeUsers) CountByRole(context.Context) ([]repositories.RoleCount, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	byRole := map[string]int64{}
	for _, u := range f.items {
		byRole[u.Role]++
	}
	var out []repositories.RoleCount
	for role, n := range byRole {
		out = append(out, repositories.RoleCount{Role: role, Count: n})
	}
	return out, nil
}

// ─── banners ─────────────────────────────────────────────────────────────────

type fakeBanners struct {
	mu    sync.Mutex
	items map[primitive.ObjectID]*models.Banner
}

func newFakeBanners(bs ...*models.Banner) *fakeBanners {
	f := &fakeBanners{items: map[primitive.ObjectID]*models.Banner{}}
	for _, b := range bs {
		if b.ID.IsZero() {
			b.ID = primitive.NewObjectID()
		}
		f.items[b.ID] = b
	}
	return f
}

func (f *fakeBanners) sorted(keep func(*models.Banner) bool) []models.Banner {
	out := []models.Banner{}
	for _, b := range f.items {
		if keep(b) {
			out = append(out, *b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out
}

func (f *fakeBanners) List(_ context.Context, active *bool) ([]models.Banner, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sorted(func(b *models.Banner) bool { return active == nil || b.IsActive == *active }), nil
}

func (f *fakeBanners) Active(_ context.Context, now time.Time) ([]models.Banner, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sorted(func(b *models.Banner) bool { return b.IsCurrentlyActive(now) }), nil
}

func (f *fakeBanners) FindByID(_ context.Context, id primitive.ObjectID) (*models.Banner, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.items[id]
	if !ok {
		return nil, apperr.NotFound(msgBannerNotFound)
	}
	cp := *b
	return &cp, nil
}

func (f *fakeBanners) OrderTaken(_ context.Context, order int, except primitive.ObjectID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, b := range f.items {
		if b.Order == order && id != except {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeBanners) NextOrder(context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	max := 0
	for _, b := range f.items {
		if b.Order > max {
			max = b.Order
		}
	}
	return max + 1, nil
}

func (f *fakeBanners) Insert(_ context.Context, b *models.Banner) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	b.ID = primitive.NewObjectID()
	cp := *b
	f.items[b.ID] = &cp
	return nil
}

func (f *fakeBanners) Update(ctx context.Context, id primitive.ObjectID, set bson.D) (*models.Banner, error) {
	f.mu.Lock()
	b, ok := f.items[id]
	if !ok {
		f.mu.Unlock()
		return nil, apperr.NotFound(msgBannerNotFound)
	}
	err := applySet(b, set)
	f.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return f.FindByID(ctx, id)
}

func (f *fakeBanners) Toggle(ctx context.Context, id primitive.ObjectID) (*models.Banner, error) {
	f.mu.Lock()
	if b, ok := f.items[id]; ok {
		b.IsActive = !b.IsActive
	}
	f.mu.Unlock()
	return f.FindByID(ctx, id)
}

func (f *fakeBanners) Reorder(_ context.Context, orders map[primitive.ObjectID]int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, n := range orders {
		if b, ok := f.items[id]; ok {
			b.Order = n
		}
	}
	return nil
}

func (f *fakeBanners) Increment(_ context.Context, id primitive.ObjectID, field string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.items[id]
	if !ok {
		return apperr.NotFound(msgBannerNotFound)
	}
	switch field {
	case "clickCount":
		b.ClickCount++
	case "viewCount":
		b.ViewCount++
	}
	return nil
}

func (f *fakeBanners) Delete(_ context.Context, id primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.items[id]; !ok {
		return apperr.NotFound(msgBannerNotFound)
	}
	delete(f.items, id)
	return nil
}

// ─── statistics ──────────────────────────────────────────────────────────────

type countCall struct {
	Collection string
	Since      time.Time
}

type fakeStats struct {
	counts     map[string]int64
	statuses   []repositories.StatusCount
	totals     repositories.RevenueTotals
	countCalls []countCall
	since      []time.Time
	buckets    []repositories.Bucket
	limits     []int
}

func (f *fakeStats) CountSince(_ context.Context, collection string, since time.Time) (int64, error) {
	f.countCalls = append(f.countCalls, countCall{collection, since})
	key := collection
	if !since.IsZero() {
		key += ":recent"
	}
	return f.counts[key], nil
}

func (f *fakeStats) DeliveredRevenue(context.Context) (repositories.RevenueTotals, error) {
	return f.totals, nil
}

func (f *fakeStats) StatusCounts(_ context.Context, since time.Time) ([]repositories.StatusCount, error) {
	f.since = append(f.since, since)
	return f.statuses, nil
}

func (f *fakeStats) RevenueSeries(_ context.Context, since time.Time, b repositories.Bucket) ([]repositories.RevenuePoint, error) {
	f.since = append(f.since, since)
	f.buckets = append(f.buckets, b)
	return nil, nil
}

func (f *fakeStats) NewUsers(_ context.Context, since time.Time, b repositories.Bucket) ([]repositories.CountPoint, error) {
	f.since = append(f.since, since)
	f.buckets = append(f.buckets, b)
	return nil, nil
}

func (f *fakeStats) TopProducts(_ context.Context, since time.Time, limit int) ([]repositories.TopProduct, error) {
	f.since = append(f.since, since)
	f.limits = append(f.limits, limit)
	return []repositories.TopProduct{}, nil
}

func (f *fakeStats) CategoryRevenue(_ context.Context, since time.Time) ([]repositories.CategoryRevenue, error) {
	f.since = append(f.since, since)
	return nil, nil
}

// ─── collaborators ───────────────────────────────────────────────────────────

type fakeSeq struct {
	n     int64
	stuck bool
}

func (f *fakeSeq) Next(context.Context, string) (int64, error) {
	if !f.stuck {
		f.n++
	}
	return f.n, nil
}

type fakeJobs struct {
	mu   sync.Mutex
	jobs []queue.Job
}

func (f *fakeJobs) Dispatch(_ context.Context, job queue.Job) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.jobs = append(f.jobs, job)
	return nil
}

type firedEvent struct {
	Name    string
	Payload interface{}
}

type fakeEvents struct {
	mu    sync.Mutex
	fired []firedEvent
}

func (f *fakeEvents) Fire(_ context.Context, name string, payload interface{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fired = append(f.fired, firedEvent{name, payload})
}

func (f *fakeEvents) names() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.fired))
	for i, e := range f.fired {
		out[i] = e.Name
	}
	return out
}

// message is the user facing text of an apperr.
func message(err error) string {
	var ae *apperr.Error
	if errors.As(err, &ae) {
		return ae.Message
	}
	return ""
}

func paramsFor(page, limit int) paginate.Params {
	return paginate.Params{Page: page, Limit: limit}
}

// pageOf slices items the way $skip and $limit would. A zero Params
// returns everything.
func pageOf[T any](items []T, p paginate.Params) []T {
	if p.Limit < 1 {
		return items
	}
	skip := p.Skip()
	if skip >= int64(len(items)) {
		return []T{}
	}
	end := skip + p.Limit64()
	if end > int64(len(items)) {
		end = int64(len(items))
	}
	return items[skip:end]
}

func reviewQueryFor(id primitive.ObjectID) repositories.ProductReviewQuery {
	return repositories.ProductReviewQuery{Product: id, Page: paramsFor(1, 12)}
}
