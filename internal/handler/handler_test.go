package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/recipe-catalog/internal/handler"
	"github.com/iliyamo/recipe-catalog/internal/model"
	"github.com/iliyamo/recipe-catalog/internal/paging"
	"github.com/iliyamo/recipe-catalog/internal/queue"
	"github.com/iliyamo/recipe-catalog/internal/repository/memory"
	"github.com/iliyamo/recipe-catalog/internal/router"
	"github.com/iliyamo/recipe-catalog/internal/service"
	"github.com/iliyamo/recipe-catalog/internal/session"
)

type fixture struct {
	e           *echo.Echo
	chefs       *service.ChefService
	ingredients *service.IngredientService
	recipes     *service.RecipeService
	admin       *model.Chef
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := memory.New()
	events := queue.NopPublisher{}
	f := &fixture{
		chefs:       service.NewChefService(db.Chefs(), events, nil),
		ingredients: service.NewIngredientService(db.Ingredients(), events, nil),
		recipes:     service.NewRecipeService(db.Recipes(), events, nil),
	}
	auth := service.NewAuthService(f.chefs, session.NewMemoryStore(), 0, events, nil)

	e := echo.New()
	router.RegisterRoutes(e, nil)
	router.RegisterAuth(e, handler.NewAuthHandler(auth))
	router.RegisterRecipes(e, handler.NewRecipeHandler(f.recipes), auth, nil)
	router.RegisterIngredients(e, handler.NewIngredientHandler(f.ingredients), auth, nil)
	router.RegisterChefs(e, handler.NewChefHandler(f.chefs, 0), auth, nil)
	f.e = e

	f.admin = &model.Chef{Username: "admin", Email: "admin@example.com", Password: "secret", Admin: true}
	require.NoError(t, f.chefs.Save(context.Background(), f.admin))
	return f
}

func (f *fixture) do(t *testing.T, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	f.e.ServeHTTP(rec, req)
	return rec
}

func (f *fixture) login(t *testing.T, username, password string) string {
	t.Helper()
	rec := f.do(t, http.MethodPost, "/login", "", fmt.Sprintf(`{"username":%q,"password":%q}`, username, password))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	token, _, ok := strings.Cut(rec.Body.String(), " ")
	require.True(t, ok)
	return token
}

func (f *fixture) register(t *testing.T, username string) string {
	t.Helper()
	rec := f.do(t, http.MethodPost, "/register", "", fmt.Sprintf(`{"username":%q,"email":"x@example.com","password":"pw"}`, username))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return f.login(t, username, "pw")
}

func (f *fixture) ingredient(t *testing.T, name string) int64 {
	t.Helper()
	in := &model.Ingredient{Name: name}
	require.NoError(t, f.ingredients.Save(context.Background(), in))
	return in.ID
}

func (f *fixture) recipe(t *testing.T, name string, lines ...model.RecipeIngredient) int64 {
	t.Helper()
	r := &model.Recipe{Name: name, Instructions: "cook " + name, Author: f.admin, Ingredients: lines}
	require.NoError(t, f.recipes.Save(context.Background(), r))
	return r.ID
}

func errorOf(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body["error"]
}

func TestRegister(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/register", "", `{"username":"bob","email":"bob@example.com","password":"pw","admin":true}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var chef map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &chef))
	assert.Equal(t, "bob", chef["username"])
	assert.Equal(t, false, chef["admin"])
	assert.NotContains(t, chef, "password")
	assert.NotZero(t, chef["id"])

	rec = f.do(t, http.MethodPost, "/register", "", `{"username":"bob","password":"other"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "Username already exists", errorOf(t, rec))

	rec = f.do(t, http.MethodPost, "/register", "", `{"username":"","password":"pw"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodPost, "/register", "", `{not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLogin(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/login", "", `{"username":"admin","password":"secret"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	token, admin, ok := strings.Cut(rec.Body.String(), " ")
	require.True(t, ok)
	assert.Equal(t, "true", admin)
	assert.Equal(t, token, rec.Header().Get(echo.HeaderAuthorization))

	rec = f.do(t, http.MethodPost, "/login", "", `{"username":"admin","password":"nope"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid username or password", errorOf(t, rec))
	assert.Empty(t, rec.Header().Get(echo.HeaderAuthorization))

	f.register(t, "bob")
	rec = f.do(t, http.MethodPost, "/login", "", `{"username":"bob","password":"pw"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasSuffix(rec.Body.String(), " false"))
}

func TestLogout_InvalidatesToken(t *testing.T) {
	f := newFixture(t)
	token := f.register(t, "bob")

	rec := f.do(t, http.MethodPost, "/logout", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Logout successful", rec.Body.String())

	rec = f.do(t, http.MethodPost, "/recipes", token, `{"name":"Soup"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// unknown tokens are ignored
	rec = f.do(t, http.MethodPost, "/logout", "no-such-token", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRecipes_CreateAndGet(t *testing.T) {
	f := newFixture(t)
	carrot := f.ingredient(t, "carrot")
	token := f.register(t, "bob")

	body := fmt.Sprintf(`{"name":"Soup","instructions":"boil","ingredients":[{"id":%d,"volume":2,"unit":"cup"}]}`, carrot)
	rec := f.do(t, http.MethodPost, "/recipes", token, body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created model.Recipe
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.NotZero(t, created.ID)
	require.NotNil(t, created.Author)
	assert.Equal(t, "bob", created.Author.Username)

	rec = f.do(t, http.MethodGet, fmt.Sprintf("/recipes/%d", created.ID), "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var got model.Recipe
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "Soup", got.Name)
	assert.Equal(t, "boil", got.Instructions)
	require.Len(t, got.Ingredients, 1)
	assert.Equal(t, "carrot", got.Ingredients[0].Name)
	assert.Equal(t, 2.0, got.Ingredients[0].Volume)
	assert.Equal(t, "cup", got.Ingredients[0].Unit)

	rec = f.do(t, http.MethodGet, "/recipes/999", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Recipe not found", errorOf(t, rec))

	rec = f.do(t, http.MethodGet, "/recipes/abc", "", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRecipes_CreateRequiresSession(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/recipes", "", `{"name":"Soup"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = f.do(t, http.MethodPost, "/recipes", "forged", `{"name":"Soup"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRecipes_UpdateMergesInstructions(t *testing.T) {
	f := newFixture(t)
	id := f.recipe(t, "stew")
	adminToken := f.login(t, "admin", "secret")
	path := fmt.Sprintf("/recipes/%d", id)

	rec := f.do(t, http.MethodPut, path, adminToken, `{"name":"renamed"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var merged model.Recipe
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &merged))
	assert.Equal(t, "stew", merged.Name)
	assert.Equal(t, "cook stew", merged.Instructions)
	require.NotNil(t, merged.Author)
	assert.Equal(t, f.admin.ID, merged.Author.ID)

	rec = f.do(t, http.MethodPut, path, adminToken, `{"instructions":"simmer slowly"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &merged))
	assert.Equal(t, "simmer slowly", merged.Instructions)

	stored, err := f.recipes.Find(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "simmer slowly", stored.Instructions)

	rec = f.do(t, http.MethodPut, path, adminToken, `{"instructions":null}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &merged))
	assert.Equal(t, "simmer slowly", merged.Instructions, "null keeps the stored value")

	rec = f.do(t, http.MethodPut, path, adminToken, `{"instructions":""}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &merged))
	assert.Empty(t, merged.Instructions, "an explicit empty string clears")
	assert.Equal(t, "stew", merged.Name)

	rec = f.do(t, http.MethodPut, "/recipes/999", adminToken, `{"instructions":"x"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Recipe not found.", errorOf(t, rec))
}

func TestRecipes_AdminGate(t *testing.T) {
	f := newFixture(t)
	id := f.recipe(t, "stew")
	path := fmt.Sprintf("/recipes/%d", id)
	token := f.register(t, "bob")

	rec := f.do(t, http.MethodPut, path, token, `{"instructions":"x"}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Access denied", errorOf(t, rec))

	rec = f.do(t, http.MethodDelete, path, token, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = f.do(t, http.MethodDelete, path, "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Access denied", errorOf(t, rec))

	// reads stay public
	rec = f.do(t, http.MethodGet, path, "", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	_, err := f.recipes.Find(context.Background(), id)
	assert.NoError(t, err)
}

func TestRecipes_Delete(t *testing.T) {
	f := newFixture(t)
	id := f.recipe(t, "stew")
	adminToken := f.login(t, "admin", "secret")
	path := fmt.Sprintf("/recipes/%d", id)

	rec := f.do(t, http.MethodDelete, path, adminToken, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Recipe deleted successfully.", rec.Body.String())

	rec = f.do(t, http.MethodDelete, path, adminToken, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Recipe not found.", errorOf(t, rec))

	_, err := f.recipes.Find(context.Background(), id)
	assert.True(t, errors.Is(err, service.ErrNotFound))
}

func TestRecipes_List(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/recipes", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "No recipes found", errorOf(t, rec))

	carrot := f.ingredient(t, "carrot")
	f.recipe(t, "carrot cake", model.RecipeIngredient{ID: carrot, Volume: 3, Unit: "pc"})
	f.recipe(t, "lemon tart")
	f.recipe(t, "cake pops")

	rec = f.do(t, http.MethodGet, "/recipes", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list []model.Recipe
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 3)
	assert.Equal(t, "carrot cake", list[0].Name)

	rec = f.do(t, http.MethodGet, "/recipes?name=cake", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Len(t, list, 2)

	rec = f.do(t, http.MethodGet, "/recipes?ingredient=carr", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, "carrot cake", list[0].Name)

	rec = f.do(t, http.MethodGet, "/recipes?name=nothing", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRecipes_Paged(t *testing.T) {
	f := newFixture(t)
	for i := 1; i <= 6; i++ {
		f.recipe(t, fmt.Sprintf("dish %d", i))
	}

	rec := f.do(t, http.MethodGet, "/recipes?page=1&pageSize=2", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var page paging.Page[model.Recipe]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	assert.Equal(t, 1, page.PageNumber)
	assert.Equal(t, 2, page.PageSize)
	assert.Equal(t, 3, page.TotalPages)
	assert.Equal(t, 6, page.TotalElements)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "dish 1", page.Items[0].Name)

	rec = f.do(t, http.MethodGet, "/recipes?page=1&pageSize=2&sortBy=name&sortDirection=desc", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	assert.Equal(t, "dish 6", page.Items[0].Name)

	// past the end is an empty page, not an error
	rec = f.do(t, http.MethodGet, "/recipes?page=9&pageSize=2", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"items":[]`)

	// a page with no matches is still an envelope
	rec = f.do(t, http.MethodGet, "/recipes?page=1&term=zzz", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	assert.Equal(t, 0, page.TotalElements)
	assert.Equal(t, 10, page.PageSize)

	for _, q := range []string{"page=0", "page=abc", "page=1&pageSize=0", "page=1&sortBy=password", "page=1&sortDirection=up"} {
		rec = f.do(t, http.MethodGet, "/recipes?"+q, "", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code, q)
	}
}

func TestIngredients_CRUD(t *testing.T) {
	f := newFixture(t)
	adminToken := f.login(t, "admin", "secret")
	potato := f.ingredient(t, "potato")
	f.ingredient(t, "tomato")
	f.ingredient(t, "salt")

	rec := f.do(t, http.MethodPost, "/ingredients", adminToken, `{"name":"parsnips"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var created model.Ingredient
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "parsnips", created.Name)
	assert.NotZero(t, created.ID)

	rec = f.do(t, http.MethodPost, "/ingredients", adminToken, `{"name":"  "}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodGet, "/ingredients?term=to", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list []model.Ingredient
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 2)
	assert.Equal(t, "potato", list[0].Name)
	assert.Equal(t, "tomato", list[1].Name)

	rec = f.do(t, http.MethodPut, fmt.Sprintf("/ingredients/%d", potato), adminToken, `{"name":"sweet potato"}`)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	got, err := f.ingredients.Find(context.Background(), potato)
	require.NoError(t, err)
	assert.Equal(t, "sweet potato", got.Name)

	rec = f.do(t, http.MethodPut, "/ingredients/999", adminToken, `{"name":"ghost"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = f.do(t, http.MethodDelete, fmt.Sprintf("/ingredients/%d", potato), adminToken, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = f.do(t, http.MethodGet, fmt.Sprintf("/ingredients/%d", potato), "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// deleting again is still 204
	rec = f.do(t, http.MethodDelete, fmt.Sprintf("/ingredients/%d", potato), adminToken, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestIngredients_WritesNeedAdmin(t *testing.T) {
	f := newFixture(t)
	id := f.ingredient(t, "salt")
	token := f.register(t, "bob")

	rec := f.do(t, http.MethodPost, "/ingredients", token, `{"name":"pepper"}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	rec = f.do(t, http.MethodPost, "/ingredients", "", `{"name":"pepper"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	rec = f.do(t, http.MethodDelete, fmt.Sprintf("/ingredients/%d", id), token, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = f.do(t, http.MethodGet, "/ingredients", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list []model.Ingredient
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Len(t, list, 1)
}

func TestIngredients_DeleteRemovesRecipeLines(t *testing.T) {
	f := newFixture(t)
	adminToken := f.login(t, "admin", "secret")
	carrot := f.ingredient(t, "carrot")
	id := f.recipe(t, "soup", model.RecipeIngredient{ID: carrot, Volume: 1, Unit: "kg"})

	rec := f.do(t, http.MethodDelete, fmt.Sprintf("/ingredients/%d", carrot), adminToken, "")
	require.Equal(t, http.StatusNoContent, rec.Code)

	r, err := f.recipes.Find(context.Background(), id)
	require.NoError(t, err)
	assert.Empty(t, r.Ingredients)
}

func TestIngredients_Paged(t *testing.T) {
	f := newFixture(t)
	for _, n := range []string{"a", "b", "c", "d", "e"} {
		f.ingredient(t, n)
	}

	rec := f.do(t, http.MethodGet, "/ingredients?page=3&pageSize=2", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var page paging.Page[model.Ingredient]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	assert.Equal(t, 3, page.TotalPages)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "e", page.Items[0].Name)
}

func TestIngredients_PagedHugeNumbers(t *testing.T) {
	f := newFixture(t)
	for _, n := range []string{"a", "b", "c", "d", "e", "f"} {
		f.ingredient(t, n)
	}

	for _, q := range []string{
		"page=4611686018427387905&pageSize=2",
		"page=4611686018427387905&pageSize=4",
		"page=9223372036854775807&pageSize=1000",
	} {
		rec := f.do(t, http.MethodGet, "/ingredients?"+q, "", "")
		require.Equal(t, http.StatusOK, rec.Code, q)
		var page paging.Page[model.Ingredient]
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page), q)
		assert.Empty(t, page.Items, q)
		assert.Equal(t, 6, page.TotalElements, q)
	}

	for _, q := range []string{
		"page=1&pageSize=1001",
		"page=1&pageSize=9223372036854775807",
		"page=99999999999999999999",
	} {
		rec := f.do(t, http.MethodGet, "/ingredients?"+q, "", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code, q)
	}
}

func TestChefs_AdminOnly(t *testing.T) {
	f := newFixture(t)
	token := f.register(t, "bob")
	adminToken := f.login(t, "admin", "secret")

	rec := f.do(t, http.MethodGet, "/chefs", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	rec = f.do(t, http.MethodGet, "/chefs", token, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = f.do(t, http.MethodGet, "/chefs?term=bo", adminToken, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list []model.Chef
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, "bob", list[0].Username)
	assert.NotContains(t, rec.Body.String(), "password")

	rec = f.do(t, http.MethodGet, "/chefs?page=1&pageSize=1&sortBy=username", adminToken, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var page paging.Page[model.Chef]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	assert.Equal(t, 2, page.TotalPages)
	assert.Equal(t, "admin", page.Items[0].Username)

	rec = f.do(t, http.MethodGet, "/chefs/999", adminToken, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestChefs_UpdateKeepsPasswordWhenBlank(t *testing.T) {
	f := newFixture(t)
	f.register(t, "bob")
	adminToken := f.login(t, "admin", "secret")
	list, err := f.chefs.Search(context.Background(), "bob")
	require.NoError(t, err)
	require.Len(t, list, 1)
	path := fmt.Sprintf("/chefs/%d", list[0].ID)

	rec := f.do(t, http.MethodPut, path, adminToken, `{"username":"bob","email":"new@example.com","admin":true}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var chef model.Chef
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &chef))
	assert.True(t, chef.Admin)
	assert.Equal(t, "new@example.com", chef.Email)

	rec = f.do(t, http.MethodPost, "/login", "", `{"username":"bob","password":"pw"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasSuffix(rec.Body.String(), " true"))

	rec = f.do(t, http.MethodPut, path, adminToken, `{"username":"bob","password":"changed"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = f.do(t, http.MethodPost, "/login", "", `{"username":"bob","password":"changed"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestChefs_DemotionAppliesToIssuedTokens(t *testing.T) {
	f := newFixture(t)
	adminToken := f.login(t, "admin", "secret")
	bobToken := f.register(t, "bob")
	list, err := f.chefs.Search(context.Background(), "bob")
	require.NoError(t, err)
	bobPath := fmt.Sprintf("/chefs/%d", list[0].ID)

	rec := f.do(t, http.MethodPut, bobPath, adminToken, `{"username":"bob","admin":true}`)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = f.do(t, http.MethodGet, "/chefs", bobToken, "")
	assert.Equal(t, http.StatusOK, rec.Code, "promotion applies without a new login")

	rec = f.do(t, http.MethodPut, bobPath, adminToken, `{"username":"bob","admin":false}`)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = f.do(t, http.MethodGet, "/chefs", bobToken, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = f.do(t, http.MethodDelete, bobPath, adminToken, "")
	require.Equal(t, http.StatusNoContent, rec.Code)
	rec = f.do(t, http.MethodPost, "/recipes", bobToken, `{"name":"Soup"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestChefs_UpdateToTakenUsernameConflicts(t *testing.T) {
	f := newFixture(t)
	adminToken := f.login(t, "admin", "secret")
	f.register(t, "bob")
	list, err := f.chefs.Search(context.Background(), "bob")
	require.NoError(t, err)

	rec := f.do(t, http.MethodPut, fmt.Sprintf("/chefs/%d", list[0].ID), adminToken, `{"username":"admin"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "Username already exists", errorOf(t, rec))

	got, err := f.chefs.Find(context.Background(), list[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "bob", got.Username)
}

func TestChefs_Delete(t *testing.T) {
	f := newFixture(t)
	adminToken := f.login(t, "admin", "secret")
	f.recipe(t, "stew")

	rec := f.do(t, http.MethodDelete, fmt.Sprintf("/chefs/%d", f.admin.ID), adminToken, "")
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = f.do(t, http.MethodDelete, "/chefs/999", adminToken, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	f.register(t, "bob")
	list, err := f.chefs.Search(context.Background(), "bob")
	require.NoError(t, err)
	rec = f.do(t, http.MethodDelete, fmt.Sprintf("/chefs/%d", list[0].ID), adminToken, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	_, err = f.chefs.Find(context.Background(), list[0].ID)
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestHealth(t *testing.T) {
	e := echo.New()
	e.GET("/healthz", handler.Health(map[string]handler.Check{
		"db": func(context.Context) error { return nil },
	}))
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())

	e = echo.New()
	e.GET("/healthz", handler.Health(map[string]handler.Check{
		"redis": func(context.Context) error { return errors.New("down") },
	}))
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "redis unavailable", rec.Body.String())
}
