package admin

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCategoryClient struct {
	listRaw   string
	usageRaw  string
	usageErr  error
	createRaw string
	renameRaw string
	renameErr error
	deleteErr error

	renamed map[string]string
	deleted []string
}

func (f *fakeCategoryClient) List(ctx context.Context) ([]byte, error) {
	return []byte(f.listRaw), nil
}

func (f *fakeCategoryClient) Create(ctx context.Context, name string) ([]byte, error) {
	return []byte(f.createRaw), nil
}

func (f *fakeCategoryClient) Rename(ctx context.Context, id, name string) ([]byte, error) {
	if f.renameErr != nil {
		return nil, f.renameErr
	}
	if f.renamed == nil {
		f.renamed = map[string]string{}
	}
	f.renamed[id] = name
	if f.renameRaw != "" {
		return []byte(f.renameRaw), nil
	}
	return []byte(`{"success":true}`), nil
}

func (f *fakeCategoryClient) Delete(ctx context.Context, id string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeCategoryClient) Usage(ctx context.Context) ([]byte, error) {
	if f.usageErr != nil {
		return nil, f.usageErr
	}
	return []byte(f.usageRaw), nil
}

const categoryList = `{"success":true,"data":{"categories":[
	{"id":"c1","name":"Cables","type":"product"},
	{"id":"c2","name":"Switchgear","type":"product"},
	{"id":"c0","name":"Uncategorized","type":"product"}
]}}`

func setupCategories(t *testing.T) (*Categories, *Controller[Product], *fakeCategoryClient, *Notifier) {
	t.Helper()
	products := &fakeClient{listRaw: `[
		{"id":1,"name":"Copper","category":"Cables","price":1},
		{"id":2,"name":"Aluminium","category":"Cables","price":1},
		{"id":3,"name":"MCB","category":"Switchgear","price":1},
		{"id":4,"name":"Loose","price":1}
	]`}
	n := NewNotifier(time.Minute)
	ctrl := NewController(products, ProductFromRaw, ProductSchema(nil), n, Options{Noun: "product"})
	require.NoError(t, ctrl.Load(context.Background()))

	client := &fakeCategoryClient{listRaw: categoryList, usageErr: errors.New("not supported")}
	cats := NewCategories(client, n, time.Second)
	cats.Attach(ctrl)
	require.NoError(t, cats.Load(context.Background()))
	return cats, ctrl, client, n
}

func TestCategoriesNames(t *testing.T) {
	client := &fakeCategoryClient{listRaw: categoryList}
	cats := NewCategories(client, nil, time.Second)
	assert.Nil(t, cats.Names(), "unknown before load")

	require.NoError(t, cats.Load(context.Background()))
	assert.Equal(t, []string{"Cables", "Switchgear", Uncategorized}, cats.Names())
}

func TestCategoriesUsageFromServer(t *testing.T) {
	client := &fakeCategoryClient{
		listRaw:  categoryList,
		usageRaw: `{"data":[{"name":"Cables","count":7},{"name":"Switchgear","count":2}]}`,
	}
	cats := NewCategories(client, nil, time.Second)
	require.NoError(t, cats.Load(context.Background()))

	assert.Equal(t, 7, cats.Usage("Cables"))
	assert.Equal(t, 2, cats.List()[1].Count)
}

func TestCategoryRenameCascade(t *testing.T) {
	cats, ctrl, client, n := setupCategories(t)
	assert.Equal(t, 2, cats.Usage("Cables"))

	renamed, err := cats.Rename(context.Background(), "c1", "Wiring")
	require.NoError(t, err)
	assert.Equal(t, "Wiring", renamed.Name)
	assert.Equal(t, "Wiring", client.renamed["c1"])

	assert.Equal(t, 0, ctrl.CategoryUsage("Cables"))
	assert.Equal(t, 2, ctrl.CategoryUsage("Wiring"))
	assert.Equal(t, 2, cats.Usage("Wiring"))
	assert.Equal(t, 0, cats.Usage("Cables"))
	assert.Contains(t, cats.Names(), "Wiring")
	assert.NotContains(t, cats.Names(), "Cables")

	toast, _ := n.Current()
	assert.Equal(t, ToastSuccess, toast.Kind)
}

func TestCategoryRenameToSameNameKeepsUsage(t *testing.T) {
	client := &fakeCategoryClient{
		listRaw:  categoryList,
		usageRaw: `{"data":[{"name":"Cables","count":7}]}`,
	}
	cats := NewCategories(client, nil, time.Second)
	require.NoError(t, cats.Load(context.Background()))

	renamed, err := cats.Rename(context.Background(), "c1", "Cables")
	require.NoError(t, err)
	assert.Equal(t, "Cables", renamed.Name)
	assert.Equal(t, 7, cats.Usage("Cables"))
}

func TestCategoryRenameUsesStoredName(t *testing.T) {
	cats, ctrl, client, _ := setupCategories(t)
	client.renameRaw = `{"success":true,"data":{"id":"c1","name":"Wiring","type":"product"}}`

	renamed, err := cats.Rename(context.Background(), "c1", "<b>Wiring</b>")
	require.NoError(t, err)
	assert.Equal(t, "Wiring", renamed.Name)
	assert.Equal(t, 2, ctrl.CategoryUsage("Wiring"))
	assert.Equal(t, 0, ctrl.CategoryUsage("<b>Wiring</b>"))
	assert.Contains(t, cats.Names(), "Wiring")
}

func TestCategoryDeleteReassigns(t *testing.T) {
	cats, ctrl, client, _ := setupCategories(t)

	require.NoError(t, cats.Delete(context.Background(), "c2"))
	assert.Equal(t, []string{"c2"}, client.deleted)
	assert.Len(t, ctrl.Records(), 4, "records survive category deletion")
	assert.Equal(t, 0, ctrl.CategoryUsage("Switchgear"))
	assert.Equal(t, 2, ctrl.CategoryUsage(Uncategorized))
	assert.NotContains(t, cats.Names(), "Switchgear")
}

func TestCategoryFailuresLeaveRecords(t *testing.T) {
	cats, ctrl, client, n := setupCategories(t)
	client.renameErr = apiErr{msg: "Category name already exists"}
	client.deleteErr = errors.New("boom")

	_, err := cats.Rename(context.Background(), "c1", "Wiring")
	assert.ErrorIs(t, err, ErrUpdateFailed)
	assert.Equal(t, 2, ctrl.CategoryUsage("Cables"))
	toast, _ := n.Current()
	assert.Equal(t, "Category name already exists", toast.Message)

	err = cats.Delete(context.Background(), "c1")
	assert.ErrorIs(t, err, ErrDeleteFailed)
	assert.Equal(t, 2, ctrl.CategoryUsage("Cables"))
}

func TestCategoryNameChecks(t *testing.T) {
	cats, _, _, _ := setupCategories(t)

	_, err := cats.Create(context.Background(), "  ")
	assert.ErrorIs(t, err, ErrValidationFailed)

	_, err = cats.Create(context.Background(), "cables")
	assert.ErrorIs(t, err, ErrValidationFailed)

	_, err = cats.Rename(context.Background(), "c2", "CABLES")
	assert.ErrorIs(t, err, ErrValidationFailed)

	_, err = cats.Rename(context.Background(), "c0", "Misc")
	assert.ErrorIs(t, err, ErrValidationFailed)

	assert.ErrorIs(t, cats.Delete(context.Background(), "c0"), ErrValidationFailed)
	assert.ErrorIs(t, cats.Delete(context.Background(), "missing"), ErrNotFound)
}

func TestCategoryCreate(t *testing.T) {
	cats, _, client, _ := setupCategories(t)
	client.createRaw = `{"success":true,"data":{"id":"c9","name":"Lighting","type":"product"}}`

	cat, err := cats.Create(context.Background(), "Lighting")
	require.NoError(t, err)
	assert.Equal(t, "c9", cat.ID)
	assert.Equal(t, []string{"Cables", "Lighting", "Switchgear", Uncategorized}, cats.Names())
}
