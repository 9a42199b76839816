package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/foodorder/backend/internal/domain/access"
	"github.com/foodorder/backend/internal/domain/catalog"
	"github.com/foodorder/backend/internal/domain/shared"
	"github.com/foodorder/backend/internal/infrastructure/csvimport"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	codeInvalidCSV = "INVALID_CSV"

	menuImportMaxRows   = 500
	menuImportMaxErrors = 100
)

// ConflictMode decides what happens to rows naming a menu item the
// restaurant already has
type ConflictMode string

const (
	ConflictSkip   ConflictMode = "skip"
	ConflictUpdate ConflictMode = "update"
	ConflictFail   ConflictMode = "fail"
)

var menuImportRequiredColumns = []string{"name", "price", "category"}

func menuImportRules() []csvimport.FieldRule {
	return []csvimport.FieldRule{
		csvimport.Field("name").Required().String().MaxLength(200).Unique().Build(),
		csvimport.Field("description").String().MaxLength(2000).Build(),
		csvimport.Field("price").Required().Decimal().MinValue(decimal.Zero).Build(),
		csvimport.Field("category").Required().String().MaxLength(100).Build(),
		csvimport.Field("image_url").String().MaxLength(500).Custom(validateImageURL).Build(),
		csvimport.Field("is_available").Bool().Build(),
	}
}

func validateImageURL(value string) error {
	u, err := url.ParseRequestURI(value)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return errors.New("image_url must be an absolute http(s) URL")
	}
	return nil
}

// MenuImportService bulk loads a restaurant's menu from CSV. A file is
// applied only when every row is valid; otherwise nothing is written and
// the row errors are returned.
type MenuImportService struct {
	restaurantRepo catalog.RestaurantRepository
	menuItemRepo   catalog.MenuItemRepository
	logger         *zap.Logger
}

// NewMenuImportService creates a new menu import service
func NewMenuImportService(
	restaurantRepo catalog.RestaurantRepository,
	menuItemRepo catalog.MenuItemRepository,
	logger *zap.Logger,
) *MenuImportService {
	return &MenuImportService{
		restaurantRepo: restaurantRepo,
		menuItemRepo:   menuItemRepo,
		logger:         logger,
	}
}

// Import reads the CSV in r and creates or updates the restaurant's menu
// items. Existing items are matched by case-insensitive name.
func (s *MenuImportService) Import(
	ctx context.Context,
	p access.Principal,
	restaurantID uuid.UUID,
	r io.Reader,
	req MenuImportRequest,
) (*MenuImportResponse, error) {
	if err := access.Authorize(p, access.OpMenuItemCreate); err != nil {
		return nil, err
	}
	mode := req.ConflictMode
	if mode == "" {
		mode = ConflictSkip
	}

	restaurant, err := s.restaurantRepo.FindByID(ctx, restaurantID)
	if err != nil {
		return nil, err
	}

	rows, err := readMenuRows(r)
	if err != nil {
		return nil, err
	}

	existing, err := s.menuItemRepo.FindByRestaurant(ctx, restaurant.ID)
	if err != nil {
		return nil, err
	}
	byName := make(map[string]*catalog.MenuItem, len(existing))
	for _, item := range existing {
		byName[strings.ToLower(item.Name)] = item
	}

	errs := csvimport.NewErrorCollection(menuImportMaxErrors)
	validator := csvimport.NewValidator(menuImportRules(), errs)
	resp := &MenuImportResponse{
		RestaurantID: restaurant.ID,
		DryRun:       req.DryRun,
		TotalRows:    len(rows),
	}

	var creates, updates []*catalog.MenuItem
	for _, row := range rows {
		if !validator.ValidateRow(row) {
			continue
		}
		name := row.Get("name")
		current, exists := byName[strings.ToLower(name)]
		if !exists {
			item, err := newMenuItemFromRow(restaurant.ID, row)
			if err != nil {
				errs.AddError(row.LineNumber, "", csvimport.ErrCodeValidation, err.Error(), "")
				continue
			}
			creates = append(creates, item)
			continue
		}

		switch mode {
		case ConflictSkip:
			resp.Skipped++
		case ConflictFail:
			errs.AddError(row.LineNumber, "name", csvimport.ErrCodeDuplicateInDB,
				fmt.Sprintf("menu item '%s' already exists", current.Name), name)
		case ConflictUpdate:
			if err := current.Update(menuItemUpdateFromRow(row)); err != nil {
				errs.AddError(row.LineNumber, "", csvimport.ErrCodeValidation, err.Error(), "")
				continue
			}
			updates = append(updates, current)
		}
	}

	resp.Created = len(creates)
	resp.Updated = len(updates)
	resp.ErrorRows = errs.RowCount()
	resp.Errors = errs.Errors()
	resp.TotalErrors = errs.TotalCount()
	resp.Truncated = errs.IsTruncated()

	if errs.HasErrors() || req.DryRun {
		s.logger.Info("Menu import not applied",
			zap.String("restaurant_id", restaurant.ID.String()),
			zap.Bool("dry_run", req.DryRun),
			zap.Int("error_rows", resp.ErrorRows))
		return resp, nil
	}

	for _, item := range creates {
		if err := s.menuItemRepo.Save(ctx, item); err != nil {
			return nil, err
		}
	}
	for _, item := range updates {
		if err := s.menuItemRepo.Save(ctx, item); err != nil {
			return nil, err
		}
	}
	resp.Applied = true

	s.logger.Info("Menu imported",
		zap.String("restaurant_id", restaurant.ID.String()),
		zap.String("conflict_mode", string(mode)),
		zap.Int("created", resp.Created),
		zap.Int("updated", resp.Updated),
		zap.Int("skipped", resp.Skipped))

	return resp, nil
}

func readMenuRows(r io.Reader) ([]*csvimport.Row, error) {
	parser, err := csvimport.NewParser(r, csvimport.WithMaxRows(menuImportMaxRows))
	if err != nil {
		return nil, shared.NewDomainError(codeInvalidCSV, err.Error())
	}
	if err := parser.ParseHeader(); err != nil {
		return nil, shared.NewDomainError(codeInvalidCSV, err.Error())
	}
	if missing := parser.MissingHeaders(menuImportRequiredColumns); len(missing) > 0 {
		return nil, shared.NewDomainError(codeInvalidCSV,
			"missing required columns: "+strings.Join(missing, ", "))
	}

	rows, err := parser.ReadAllRows()
	if err != nil {
		return nil, shared.NewDomainError(codeInvalidCSV, err.Error())
	}
	if len(rows) == 0 {
		return nil, shared.NewDomainError(codeInvalidCSV, csvimport.ErrNoDataRows.Error())
	}
	return rows, nil
}

// newMenuItemFromRow builds a menu item from a validated row. Items are
// available unless the row says otherwise.
func newMenuItemFromRow(restaurantID uuid.UUID, row *csvimport.Row) (*catalog.MenuItem, error) {
	price, _ := decimal.NewFromString(row.Get("price"))
	available := true
	if v := row.Get("is_available"); v != "" {
		available, _ = csvimport.ParseBool(v)
	}
	return catalog.NewMenuItem(restaurantID, row.Get("name"), row.Get("description"),
		price, row.Get("category"), row.Get("image_url"), available)
}

// menuItemUpdateFromRow overwrites price and category, and the optional
// columns only when the file carries them
func menuItemUpdateFromRow(row *csvimport.Row) catalog.MenuItemUpdate {
	price, _ := decimal.NewFromString(row.Get("price"))
	category := row.Get("category")
	u := catalog.MenuItemUpdate{Price: &price, Category: &category}

	if description, ok := row.Data["description"]; ok {
		u.Description = &description
	}
	if imageURL, ok := row.Data["image_url"]; ok {
		u.ImageURL = &imageURL
	}
	if v := row.Get("is_available"); v != "" {
		available, _ := csvimport.ParseBool(v)
		u.IsAvailable = &available
	}
	return u
}
