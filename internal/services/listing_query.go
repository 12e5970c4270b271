package services

import (
	"context"
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/NDQnhat/realestatepro-api/internal/models"
	"github.com/NDQnhat/realestatepro-api/pkg/logger"
	"github.com/NDQnhat/realestatepro-api/pkg/utils"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

const (
	defaultListingLimit = 10
	moderationAll       = "all"
)

type ListingSort string

const (
	SortNewest    ListingSort = "newest"
	SortOldest    ListingSort = "oldest"
	SortPriceAsc  ListingSort = "price-asc"
	SortPriceDesc ListingSort = "price-desc"
	SortAreaAsc   ListingSort = "area-asc"
	SortAreaDesc  ListingSort = "area-desc"
)

var sortOrders = map[ListingSort]string{
	SortNewest:    "created_at DESC",
	SortOldest:    "created_at ASC",
	SortPriceAsc:  "price ASC, created_at DESC",
	SortPriceDesc: "price DESC, created_at DESC",
	SortAreaAsc:   "area ASC, created_at DESC",
	SortAreaDesc:  "area DESC, created_at DESC",
}

// ListingQuery is the normalised form of every supported listing filter.
// Nil / empty fields are not applied. Build it with ParseListingQuery.
type ListingQuery struct {
	Page PageRequest

	OwnerMe       bool
	WaitingStatus string

	Search      string
	ContactName string

	AgentID    string
	AgentEmail string
	UserEmail  string
	UserName   string

	TransactionType models.TransactionType
	Kind            models.PropertyKind
	Location        string

	MinPrice, MaxPrice *float64
	MinArea, MaxArea   *float64
	Bedrooms           *int
	Bathrooms          *int

	Sort ListingSort
}

// ParseListingQuery normalises raw query parameters once, at the API boundary.
func ParseListingQuery(v url.Values) ListingQuery {
	q := ListingQuery{
		Page:          ParsePage(v.Get("page"), v.Get("limit"), defaultListingLimit),
		OwnerMe:       v.Get("owner") == "me",
		WaitingStatus: strings.TrimSpace(v.Get("waitingStatus")),
		Search:        strings.TrimSpace(v.Get("search")),
		ContactName:   strings.TrimSpace(v.Get("contactName")),
		AgentID:       strings.TrimSpace(v.Get("agentId")),
		AgentEmail:    strings.TrimSpace(v.Get("agentEmail")),
		UserEmail:     strings.TrimSpace(v.Get("userEmail")),
		UserName:      strings.TrimSpace(v.Get("userName")),
		Location:      strings.TrimSpace(v.Get("location")),
		MinPrice:      parseFloat(v.Get("minPrice")),
		MaxPrice:      parseFloat(v.Get("maxPrice")),
		MinArea:       parseFloat(v.Get("minArea")),
		MaxArea:       parseFloat(v.Get("maxArea")),
		Bedrooms:      parseInt(v.Get("bedrooms")),
		Bathrooms:     parseInt(v.Get("bathrooms")),
		Sort:          SortNewest,
	}

	tx := firstNonEmpty(v.Get("transactionType"), v.Get("type"))
	q.TransactionType = NormalizeTransactionType(tx)

	q.Kind = NormalizeKind(firstNonEmpty(v.Get("model"), v.Get("propertyType")))

	if s := ListingSort(v.Get("sort")); sortOrders[s] != "" {
		q.Sort = s
	}
	return q
}

// NormalizeTransactionType maps the legacy "sale" spelling onto "sell".
func NormalizeTransactionType(raw string) models.TransactionType {
	raw = strings.TrimSpace(raw)
	if raw == "sale" {
		return models.TransactionSell
	}
	return models.TransactionType(raw)
}

// NormalizeKind maps "apartment" onto "flat"; anything else that is not a
// known kind normalises to "" and is ignored.
func NormalizeKind(raw string) models.PropertyKind {
	raw = strings.TrimSpace(raw)
	if raw == "apartment" {
		return models.KindFlat
	}
	if k := models.PropertyKind(raw); k.Valid() {
		return k
	}
	return ""
}

// ListingView is a listing with its resolved effective contact.
type ListingView struct {
	models.Property
	Contact *ContactView `json:"contact"`
}

func NewListingView(p models.Property) ListingView {
	return ListingView{Property: p, Contact: ViewContact(&p)}
}

type ListingPage struct {
	Properties []ListingView `json:"properties"`
	Pagination Pagination    `json:"pagination"`
}

type condition struct {
	query string
	args  []interface{}
}

// listingFilter is the finalised filter; count and page are both derived
// from the same value.
type listingFilter struct {
	conds []condition
	// empty short-circuits to a zero result set
	empty bool
}

func (f *listingFilter) where(query string, args ...interface{}) {
	f.conds = append(f.conds, condition{query: query, args: args})
}

func (f listingFilter) scope(db *gorm.DB) *gorm.DB {
	for _, c := range f.conds {
		db = db.Where(c.query, c.args...)
	}
	return db
}

const likeEscape = ` ESCAPE '\'`

// buildListingFilter evaluates visibility first, then every optional filter.
func buildListingFilter(ctx context.Context, db *gorm.DB, q ListingQuery, viewer *Viewer) (listingFilter, error) {
	var f listingFilter

	ownerView := q.OwnerMe && viewer != nil && viewer.ID != ""
	switch {
	case ownerView:
		f.where("user_id = ?", viewer.ID)
	case viewer.IsAdmin() && q.WaitingStatus != "":
		if q.WaitingStatus != moderationAll {
			f.where("waiting_status = ?", q.WaitingStatus)
		}
	default:
		f.where("waiting_status = ? AND status = ?", models.ModerationReviewed, models.StatusActive)
	}

	if q.Search != "" {
		pattern := utils.ContainsPattern(q.Search)
		f.where("(LOWER(title) LIKE ?"+likeEscape+" OR LOWER(location) LIKE ?"+likeEscape+")", pattern, pattern)
	}

	if q.ContactName != "" {
		var ids []string
		err := db.WithContext(ctx).Model(&models.Message{}).
			Where("LOWER(sender_name) LIKE ?"+likeEscape, utils.ContainsPattern(q.ContactName)).
			Distinct().Pluck("property_id", &ids).Error
		if err != nil {
			return f, err
		}
		if len(ids) == 0 {
			f.empty = true
			return f, nil
		}
		f.where("id IN ?", ids)
	}

	if q.AgentID != "" {
		f.where("agent_id = ?", q.AgentID)
	} else if q.AgentEmail != "" {
		var agent models.Agent
		err := db.WithContext(ctx).Where("email = ?", q.AgentEmail).Limit(1).Find(&agent).Error
		if err != nil {
			return f, err
		}
		if agent.ID == "" {
			f.empty = true
			return f, nil
		}
		f.where("agent_id = ?", agent.ID)
	}

	if !ownerView && (q.UserEmail != "" || q.UserName != "") {
		users := db.WithContext(ctx).Model(&models.User{})
		if q.UserEmail != "" {
			users = users.Where("LOWER(email) LIKE ?"+likeEscape, utils.ContainsPattern(q.UserEmail))
		}
		if q.UserName != "" {
			users = users.Where("LOWER(name) LIKE ?"+likeEscape, utils.ContainsPattern(q.UserName))
		}
		var ids []string
		if err := users.Pluck("id", &ids).Error; err != nil {
			return f, err
		}
		if len(ids) == 0 {
			f.empty = true
			return f, nil
		}
		f.where("user_id IN ?", ids)
	}

	if q.TransactionType != "" {
		f.where("transaction_type = ?", q.TransactionType)
	}
	if q.Kind != "" {
		f.where("model = ?", q.Kind)
	}
	if q.Location != "" {
		f.where("LOWER(location) LIKE ?"+likeEscape, utils.ContainsPattern(q.Location))
	}

	if q.MinPrice != nil {
		f.where("price >= ?", *q.MinPrice)
	}
	if q.MaxPrice != nil {
		f.where("price <= ?", *q.MaxPrice)
	}
	if q.MinArea != nil {
		f.where("area >= ?", *q.MinArea)
	}
	if q.MaxArea != nil {
		f.where("area <= ?", *q.MaxArea)
	}
	if q.Bedrooms != nil {
		f.where("bedrooms = ?", *q.Bedrooms)
	}
	if q.Bathrooms != nil {
		f.where("bathrooms = ?", *q.Bathrooms)
	}

	return f, nil
}

// SearchListings returns one page of listings visible to viewer.
func SearchListings(ctx context.Context, db *gorm.DB, q ListingQuery, viewer *Viewer) (*ListingPage, error) {
	if q.Page.Limit <= 0 {
		q.Page = ParsePage("", "", defaultListingLimit)
	}
	order := sortOrders[q.Sort]
	if order == "" {
		order = sortOrders[SortNewest]
	}

	filter, err := buildListingFilter(ctx, db, q, viewer)
	if err != nil {
		return nil, err
	}
	if filter.empty {
		logger.Debug().Str("contact_name", q.ContactName).Str("agent_email", q.AgentEmail).
			Str("user_email", q.UserEmail).Msg("Listing search matched no contact")
		return &ListingPage{Properties: []ListingView{}, Pagination: q.Page.Meta(0)}, nil
	}

	var (
		total int64
		rows  []models.Property
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return db.WithContext(gctx).Model(&models.Property{}).Scopes(filter.scope).Count(&total).Error
	})
	g.Go(func() error {
		return db.WithContext(gctx).Scopes(filter.scope).
			Preload("Agent").Preload("Owner").
			Order(order).
			Limit(q.Page.Limit).Offset(q.Page.Offset()).
			Find(&rows).Error
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	views := make([]ListingView, 0, len(rows))
	for _, p := range rows {
		views = append(views, NewListingView(p))
	}
	return &ListingPage{Properties: views, Pagination: q.Page.Meta(total)}, nil
}

func parseFloat(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

func parseInt(s string) *int {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &n
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
