package session

import (
	"context"
	"errors"
	"testing"

	"craftcalc/data"
	"craftcalc/input"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockStore struct {
	mock.Mock
}

func (m *MockStore) LoadRecipes(ctx context.Context) ([]data.RecipeDef, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]data.RecipeDef), args.Error(1)
}

func (m *MockStore) SaveRecipes(ctx context.Context, defs []data.RecipeDef) error {
	return m.Called(ctx, defs).Error(0)
}

func (m *MockStore) LoadInventory(ctx context.Context) (map[string]float64, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]float64), args.Error(1)
}

func (m *MockStore) SaveInventory(ctx context.Context, stock map[string]float64) error {
	return m.Called(ctx, stock).Error(0)
}

func (m *MockStore) Close() error { return m.Called().Error(0) }

var crystalDefs = []data.RecipeDef{
	{Inputs: []data.ItemQty{{Item: "Rich Air", Quantity: 2}}, Outputs: []data.ItemQty{{Item: "Mana Crystal", Quantity: 1}}},
}

func openMocked(t *testing.T, store *MockStore) *Session {
	t.Helper()
	store.On("LoadRecipes", mock.Anything).Return(crystalDefs, nil)
	store.On("LoadInventory", mock.Anything).Return(map[string]float64{"Rich Air": 4}, nil)
	s, err := Open(context.Background(), store, Options{})
	require.NoError(t, err)
	return s
}

func TestAddRecipe_SaveFailureKeepsIndex(t *testing.T) {
	store := &MockStore{}
	s := openMocked(t, store)
	store.On("SaveRecipes", mock.Anything, mock.Anything).Return(errors.New("disk full"))

	r, err := input.ParseRecipe("Log -> Planks,4")
	require.NoError(t, err)
	assert.EqualError(t, s.AddRecipe(context.Background(), r), "disk full")
	assert.Len(t, s.Recipes(), 1)
	store.AssertExpectations(t)
}

func TestCalculate_SaveFailureReported(t *testing.T) {
	store := &MockStore{}
	s := openMocked(t, store)
	boom := errors.New("connection lost")
	store.On("SaveInventory", mock.Anything, map[string]float64{}).Return(boom)

	out, err := s.CalculateText(context.Background(), "Mana Crystal, 2")
	assert.ErrorIs(t, err, boom)
	require.NotNil(t, out.Result)
	assert.Equal(t, map[string]float64{"Mana Crystal": 2}, out.Products.Finished)
	store.AssertExpectations(t)
}

func TestOpen_LoadFailure(t *testing.T) {
	store := &MockStore{}
	store.On("LoadRecipes", mock.Anything).Return(nil, errors.New("no table"))

	_, err := Open(context.Background(), store, Options{})
	assert.ErrorContains(t, err, "failed to load recipes")
}
