package crudsvc

import (
	"errors"
	"strings"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-crud"
	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-userinfo/command"
	"github.com/goliatone/go-userinfo/pkg/types"
	"github.com/goliatone/go-userinfo/query"
	"github.com/google/uuid"
)

const (
	textCodeUserInfoNotFound = "USER_INFO_NOT_FOUND"
	textCodeInvalidInput     = "USER_INFO_INVALID"
	textCodeStoreUnavailable = "USER_INFO_STORE_UNAVAILABLE"
)

// UserInfoServiceConfig wires the command/query layer behind the controller.
type UserInfoServiceConfig struct {
	Search gocommand.Querier[types.UserInfoFilter, types.UserInfoPage]
	Lookup gocommand.Querier[query.UserInfoLookup, *types.UserInfo]
	Create gocommand.Commander[command.UserInfoCreateInput]
	Update gocommand.Commander[command.UserInfoUpdateInput]
	Delete gocommand.Commander[command.UserInfoDeleteInput]
}

// UserInfoService adapts user info commands and queries to a go-crud
// controller. Batch operations are disabled.
type UserInfoService struct {
	search  gocommand.Querier[types.UserInfoFilter, types.UserInfoPage]
	lookup  gocommand.Querier[query.UserInfoLookup, *types.UserInfo]
	create  gocommand.Commander[command.UserInfoCreateInput]
	update  gocommand.Commander[command.UserInfoUpdateInput]
	remove  gocommand.Commander[command.UserInfoDeleteInput]
	emitter ActivityEmitter
	logger  types.Logger
}

// NewUserInfoService constructs the adapter.
func NewUserInfoService(cfg UserInfoServiceConfig, opts ...ServiceOption) *UserInfoService {
	options := applyOptions(opts)
	return &UserInfoService{
		search:  cfg.Search,
		lookup:  cfg.Lookup,
		create:  cfg.Create,
		update:  cfg.Update,
		remove:  cfg.Delete,
		emitter: options.emitter,
		logger:  options.logger,
	}
}

var _ crud.Service[*types.UserInfo] = (*UserInfoService)(nil)

func (s *UserInfoService) Create(ctx crud.Context, record *types.UserInfo) (*types.UserInfo, error) {
	if s.create == nil {
		return nil, notSupported(crud.OpCreate)
	}
	if record == nil {
		return nil, invalidInput(errors.New("go-userinfo: empty payload"))
	}
	var created types.UserInfo
	err := s.create.Execute(ctx.UserContext(), command.UserInfoCreateInput{
		Input:  inputFromRecord(record),
		Result: &created,
	})
	if err != nil {
		return nil, s.translate(err)
	}
	return &created, nil
}

func (s *UserInfoService) CreateBatch(crud.Context, []*types.UserInfo) ([]*types.UserInfo, error) {
	return nil, notSupported(crud.OpCreateBatch)
}

// Update edits the record identified by record.ID. The optional account_id
// query parameter names the account performing the edit.
func (s *UserInfoService) Update(ctx crud.Context, record *types.UserInfo) (*types.UserInfo, error) {
	if s.update == nil {
		return nil, notSupported(crud.OpUpdate)
	}
	if record == nil {
		return nil, invalidInput(errors.New("go-userinfo: empty payload"))
	}
	var updated types.UserInfo
	err := s.update.Execute(ctx.UserContext(), command.UserInfoUpdateInput{
		Input: inputFromRecord(record),
		Account: types.AccountRef{
			ID:         queryUUID(ctx, "account_id"),
			UserInfoID: record.ID,
		},
		Result: &updated,
	})
	if err != nil {
		return nil, s.translate(err)
	}
	return &updated, nil
}

func (s *UserInfoService) UpdateBatch(crud.Context, []*types.UserInfo) ([]*types.UserInfo, error) {
	return nil, notSupported(crud.OpUpdateBatch)
}

func (s *UserInfoService) Delete(ctx crud.Context, record *types.UserInfo) error {
	if s.remove == nil {
		return notSupported(crud.OpDelete)
	}
	if record == nil {
		return invalidInput(types.ErrUserInfoIDRequired)
	}
	if err := s.remove.Execute(ctx.UserContext(), command.UserInfoDeleteInput{UserInfoID: record.ID}); err != nil {
		return s.translate(err)
	}
	return nil
}

func (s *UserInfoService) DeleteBatch(crud.Context, []*types.UserInfo) error {
	return notSupported(crud.OpDeleteBatch)
}

// Index maps query parameters onto the permissive search filter.
func (s *UserInfoService) Index(ctx crud.Context, _ []repository.SelectCriteria) ([]*types.UserInfo, int, error) {
	if s.search == nil {
		return nil, 0, goerrors.New("user info search query missing", goerrors.CategoryInternal).WithCode(goerrors.CodeInternal)
	}
	page, err := s.search.Query(ctx.UserContext(), filterFromQuery(ctx))
	if err != nil {
		return nil, 0, s.translate(err)
	}
	records := make([]*types.UserInfo, 0, len(page.Items))
	for i := range page.Items {
		records = append(records, &page.Items[i])
	}
	return records, page.Total, nil
}

func (s *UserInfoService) Show(ctx crud.Context, id string, _ []repository.SelectCriteria) (*types.UserInfo, error) {
	if s.lookup == nil {
		return nil, goerrors.New("user info lookup query missing", goerrors.CategoryInternal).WithCode(goerrors.CodeInternal)
	}
	userInfoID, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return nil, goerrors.New("invalid user info id", goerrors.CategoryValidation).WithCode(goerrors.CodeBadRequest)
	}
	info, err := s.lookup.Query(ctx.UserContext(), query.UserInfoLookup{ID: userInfoID})
	if err != nil {
		return nil, s.translate(err)
	}
	if s.emitter != nil {
		record := types.ActivityRecord{
			UserInfoID: info.ID,
			Verb:       "user_info.viewed",
			ObjectType: "user_info",
			ObjectID:   info.ID.String(),
			Channel:    "crud",
		}
		if err := s.emitter.Emit(ctx.UserContext(), record); err != nil {
			s.logger.Error("user info view activity failed", err, "user_info_id", info.ID)
		}
	}
	return info, nil
}

func filterFromQuery(ctx crud.Context) types.UserInfoFilter {
	filter := types.UserInfoFilter{
		DateField:         types.DateField(strings.TrimSpace(ctx.Query("date_field"))),
		DateFrom:          queryTime(ctx, "from"),
		DateTo:            queryTime(ctx, "to"),
		PositionCodeBelow: queryInt(ctx, "position_below", 0),
		StoreID:           queryUUID(ctx, "store_id"),
		Pagination: types.Pagination{
			Limit:  queryInt(ctx, "limit", 0),
			Offset: queryInt(ctx, "offset", 0),
		},
	}
	for _, field := range []types.NameField{types.NameFieldFirstName, types.NameFieldLastName} {
		if value := strings.TrimSpace(ctx.Query(string(field))); value != "" {
			filter.NameField = field
			filter.Name = value
			break
		}
	}
	for _, field := range []types.ExactField{types.ExactFieldEmail, types.ExactFieldTel, types.ExactFieldSex} {
		if value := strings.TrimSpace(ctx.Query(string(field))); value != "" {
			filter.ExactField = field
			filter.Exact = value
			break
		}
	}
	return filter
}

func inputFromRecord(record *types.UserInfo) types.UserInfoInput {
	return types.UserInfoInput{
		FirstName:    record.FirstName,
		LastName:     record.LastName,
		Sex:          record.Sex,
		Birthday:     record.Birthday,
		Email:        record.Email,
		Tel:          record.Tel,
		HireDate:     record.HireDate,
		StoreID:      record.StoreID,
		PositionName: record.PositionName,
	}
}

func (s *UserInfoService) translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, types.ErrUserInfoNotFound):
		return goerrors.Wrap(err, goerrors.CategoryNotFound, "go-userinfo: user info not found").
			WithCode(goerrors.CodeNotFound).
			WithTextCode(textCodeUserInfoNotFound)
	case errors.Is(err, types.ErrUserInfoIDRequired),
		errors.Is(err, types.ErrInvalidAccessRightFlag),
		errors.Is(err, types.ErrSlackUserIDRequired),
		errors.Is(err, command.ErrInvalidSex):
		return invalidInput(err)
	case errors.Is(err, types.ErrStoreUnavailable):
		s.logger.Error("user info store unavailable", err)
		return goerrors.Wrap(err, goerrors.CategoryInternal, "go-userinfo: store unavailable").
			WithCode(goerrors.CodeInternal).
			WithTextCode(textCodeStoreUnavailable)
	default:
		return goerrors.Wrap(err, goerrors.CategoryInternal, "go-userinfo: user info operation failed").
			WithCode(goerrors.CodeInternal)
	}
}

func invalidInput(err error) error {
	return goerrors.Wrap(err, goerrors.CategoryValidation, "go-userinfo: invalid user info request").
		WithCode(goerrors.CodeBadRequest).
		WithTextCode(textCodeInvalidInput)
}
