package router

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"github.com/javajoker/price-compare/internal/config"
	"github.com/javajoker/price-compare/internal/repository/memory"
	"github.com/javajoker/price-compare/internal/services"
)

type fakeUploader struct {
	calls int
	err   error
}

func (f *fakeUploader) UploadImage(_ context.Context, data []byte, filename string) (*services.UploadResult, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	key := fmt.Sprintf("productos-escasos/%d_%s", f.calls, filename)
	return &services.UploadResult{
		URL:      "https://cdn.example.com/" + key,
		Key:      key,
		Size:     int64(len(data)),
		MimeType: "image/png",
	}, nil
}

type APITestSuite struct {
	suite.Suite
	router   *gin.Engine
	uploader *fakeUploader
	cancel   context.CancelFunc
}

func testConfig() *config.Config {
	return &config.Config{
		Environment: "test",
		Upload:      config.UploadConfig{MaxSizeMB: 1},
		RateLimit: config.RateLimitConfig{
			RequestsPerSecond: 1000,
			Burst:             1000,
			UploadsPerMinute:  100,
		},
		CORS: config.CORSConfig{AllowedOrigins: []string{"http://localhost:3000"}},
	}
}

func (suite *APITestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)

	var ctx context.Context
	ctx, suite.cancel = context.WithCancel(context.Background())
	suite.uploader = &fakeUploader{}
	suite.router = Initialize(ctx, Dependencies{
		Config:       testConfig(),
		Repositories: memory.New(),
		Uploader:     suite.uploader,
	})
}

func (suite *APITestSuite) TearDownTest() {
	suite.cancel()
}

func (suite *APITestSuite) do(method, path string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		suite.Require().NoError(err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *APITestSuite) decode(w *httptest.ResponseRecorder, out interface{}) {
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), out), w.Body.String())
}

func (suite *APITestSuite) createProduct(name string) string {
	w := suite.do(http.MethodPost, "/api/products", map[string]interface{}{"name": name, "description": "desc " + name})
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var body map[string]interface{}
	suite.decode(w, &body)
	return body["id"].(string)
}

func (suite *APITestSuite) createStore(name string) string {
	w := suite.do(http.MethodPost, "/api/stores", map[string]interface{}{"name": name, "address": "Calle " + name})
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var body map[string]interface{}
	suite.decode(w, &body)
	return body["id"].(string)
}

func (suite *APITestSuite) upsertPrice(productID, storeID string, price float64, available bool) *httptest.ResponseRecorder {
	return suite.do(http.MethodPost, "/api/prices", map[string]interface{}{
		"productId":   productID,
		"storeId":     storeID,
		"price":       price,
		"isAvailable": available,
	})
}

func (suite *APITestSuite) TestHealth() {
	w := suite.do(http.MethodGet, "/health", nil)

	assert.Equal(suite.T(), http.StatusOK, w.Code)
	var body map[string]interface{}
	suite.decode(w, &body)
	assert.Equal(suite.T(), "healthy", body["status"])
}

func (suite *APITestSuite) TestMetricsExposed() {
	suite.do(http.MethodGet, "/api/products", nil)

	w := suite.do(http.MethodGet, "/metrics", nil)
	assert.Equal(suite.T(), http.StatusOK, w.Code)
	assert.Contains(suite.T(), w.Body.String(), "price_compare_http_requests_total")
}

func (suite *APITestSuite) TestProductLifecycle() {
	id := suite.createProduct("Leche")

	w := suite.do(http.MethodGet, "/api/products/"+id, nil)
	assert.Equal(suite.T(), http.StatusOK, w.Code)
	var product map[string]interface{}
	suite.decode(w, &product)
	assert.Equal(suite.T(), "Leche", product["name"])
	assert.Contains(suite.T(), product, "createdAt")

	w = suite.do(http.MethodPut, "/api/products/"+id, map[string]interface{}{"description": "Entera"})
	assert.Equal(suite.T(), http.StatusOK, w.Code)
	suite.decode(w, &product)
	assert.Equal(suite.T(), "Leche", product["name"])
	assert.Equal(suite.T(), "Entera", product["description"])

	w = suite.do(http.MethodGet, "/api/products/"+uuid.NewString(), nil)
	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
	assert.JSONEq(suite.T(), `{"error":"Producto no encontrado"}`, w.Body.String())

	w = suite.do(http.MethodGet, "/api/products/not-a-uuid", nil)
	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

func (suite *APITestSuite) TestCreateProductValidation() {
	w := suite.do(http.MethodPost, "/api/products", map[string]interface{}{"name": "   "})

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
	var body map[string]interface{}
	suite.decode(w, &body)
	assert.Equal(suite.T(), "El campo name es obligatorio", body["error"])
}

func (suite *APITestSuite) TestListProductsHeadersAndFallback() {
	for _, name := range []string{"Banana", "Arroz", "Café"} {
		suite.createProduct(name)
	}

	w := suite.do(http.MethodGet, "/api/products?sortBy=name&order=asc&limit=2", nil)
	assert.Equal(suite.T(), http.StatusOK, w.Code)
	assert.Equal(suite.T(), "3", w.Header().Get("X-Total-Count"))
	assert.Equal(suite.T(), "0", w.Header().Get("X-Skip"))
	assert.Equal(suite.T(), "2", w.Header().Get("X-Limit"))

	var products []map[string]interface{}
	suite.decode(w, &products)
	suite.Require().Len(products, 2)
	assert.Equal(suite.T(), "Arroz", products[0]["name"])
	assert.Equal(suite.T(), "Banana", products[1]["name"])

	w = suite.do(http.MethodGet, "/api/products?search=caf", nil)
	suite.decode(w, &products)
	suite.Require().Len(products, 1)
	assert.Equal(suite.T(), "Café", products[0]["name"])

	w = suite.do(http.MethodGet, "/api/products?search=zzz", nil)
	assert.Equal(suite.T(), http.StatusOK, w.Code)
	assert.JSONEq(suite.T(), `[]`, w.Body.String())
}

func (suite *APITestSuite) TestUpsertAndCompare() {
	productID := suite.createProduct("Aceite")
	storeA := suite.createStore("Store A")
	storeB := suite.createStore("Store B")
	storeC := suite.createStore("Store C")

	w := suite.upsertPrice(productID, storeA, 10.00, true)
	assert.Equal(suite.T(), http.StatusCreated, w.Code, w.Body.String())
	var entry map[string]interface{}
	suite.decode(w, &entry)
	assert.Equal(suite.T(), "USD", entry["currency"])
	assert.Equal(suite.T(), "Aceite", entry["product"].(map[string]interface{})["name"])
	assert.Equal(suite.T(), "Calle Store A", entry["store"].(map[string]interface{})["address"])

	suite.Require().Equal(http.StatusCreated, suite.upsertPrice(productID, storeB, 8.50, false).Code)
	suite.Require().Equal(http.StatusCreated, suite.upsertPrice(productID, storeC, 12.00, true).Code)

	w = suite.do(http.MethodGet, "/api/compare/"+productID, nil)
	assert.Equal(suite.T(), http.StatusOK, w.Code)
	assert.Equal(suite.T(), "3", w.Header().Get("X-Total-Count"))

	var cmp struct {
		Product map[string]interface{}   `json:"product"`
		Prices  []map[string]interface{} `json:"prices"`
		Stats   map[string]interface{}   `json:"stats"`
	}
	suite.decode(w, &cmp)
	assert.Equal(suite.T(), "Aceite", cmp.Product["name"])
	suite.Require().Len(cmp.Prices, 3)
	assert.Equal(suite.T(), 8.5, cmp.Prices[0]["price"])
	assert.Equal(suite.T(), 3.0, cmp.Stats["totalStores"])
	assert.Equal(suite.T(), 2.0, cmp.Stats["availableStores"])
	assert.Equal(suite.T(), 1.0, cmp.Stats["unavailableStores"])
	assert.Equal(suite.T(), 10.0, cmp.Stats["minPrice"])
	assert.Equal(suite.T(), 12.0, cmp.Stats["maxPrice"])
	assert.Equal(suite.T(), 11.0, cmp.Stats["avgPrice"])

	w = suite.do(http.MethodGet, "/api/compare/"+productID+"?isAvailable=true&sortBy=bogus&order=desc", nil)
	suite.decode(w, &cmp)
	suite.Require().Len(cmp.Prices, 2)
	assert.Equal(suite.T(), 10.0, cmp.Prices[0]["price"])
	assert.Equal(suite.T(), 3.0, cmp.Stats["totalStores"])

	w = suite.do(http.MethodGet, "/api/compare/"+uuid.NewString(), nil)
	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

func (suite *APITestSuite) TestUpsertPriceErrors() {
	productID := suite.createProduct("Pan")
	storeID := suite.createStore("Panadería")

	w := suite.upsertPrice(uuid.NewString(), storeID, 1, true)
	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
	assert.JSONEq(suite.T(), `{"error":"Producto no encontrado"}`, w.Body.String())

	w = suite.upsertPrice(productID, uuid.NewString(), 1, true)
	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
	assert.JSONEq(suite.T(), `{"error":"Tienda no encontrada"}`, w.Body.String())

	w = suite.do(http.MethodPost, "/api/prices", map[string]interface{}{"productId": productID, "storeId": storeID})
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)

	w = suite.do(http.MethodPost, "/api/prices", "not an object")
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

func (suite *APITestSuite) TestStorePricesAndCascade() {
	storeID := suite.createStore("Centro")
	p1 := suite.createProduct("Uno")
	p2 := suite.createProduct("Dos")
	suite.Require().Equal(http.StatusCreated, suite.upsertPrice(p1, storeID, 3, true).Code)
	suite.Require().Equal(http.StatusCreated, suite.upsertPrice(p2, storeID, 1, true).Code)

	w := suite.do(http.MethodGet, "/api/stores/"+storeID+"/prices?sortBy=price&order=asc", nil)
	assert.Equal(suite.T(), http.StatusOK, w.Code)
	var view struct {
		Store  map[string]interface{}   `json:"store"`
		Prices []map[string]interface{} `json:"prices"`
	}
	suite.decode(w, &view)
	suite.Require().Len(view.Prices, 2)
	assert.Equal(suite.T(), "Dos", view.Prices[0]["product"].(map[string]interface{})["name"])

	w = suite.do(http.MethodDelete, "/api/stores/"+storeID, nil)
	assert.Equal(suite.T(), http.StatusOK, w.Code)
	assert.JSONEq(suite.T(),
		`{"message":"Tienda eliminada exitosamente","deletedPrices":2,"storeName":"Centro"}`,
		w.Body.String())

	w = suite.do(http.MethodGet, "/api/prices?productId="+p1, nil)
	assert.Equal(suite.T(), http.StatusOK, w.Code)
	assert.JSONEq(suite.T(), `[]`, w.Body.String())

	w = suite.do(http.MethodDelete, "/api/stores/"+storeID, nil)
	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

func (suite *APITestSuite) TestDeleteProductCascade() {
	productID := suite.createProduct("Galletas")
	storeID := suite.createStore("Kiosco")
	suite.Require().Equal(http.StatusCreated, suite.upsertPrice(productID, storeID, 2, true).Code)

	w := suite.do(http.MethodDelete, "/api/products/"+productID, nil)
	assert.Equal(suite.T(), http.StatusOK, w.Code)
	assert.JSONEq(suite.T(),
		`{"message":"Producto eliminado exitosamente","deletedPrices":1,"productName":"Galletas"}`,
		w.Body.String())

	w = suite.do(http.MethodGet, "/api/prices?storeId="+storeID, nil)
	assert.JSONEq(suite.T(), `[]`, w.Body.String())
}

func (suite *APITestSuite) TestPriceGetAndDelete() {
	productID := suite.createProduct("Té")
	storeID := suite.createStore("Bazar")
	w := suite.upsertPrice(productID, storeID, 4, true)
	var entry map[string]interface{}
	suite.decode(w, &entry)
	id := entry["id"].(string)

	w = suite.do(http.MethodGet, "/api/prices/"+id, nil)
	assert.Equal(suite.T(), http.StatusOK, w.Code)

	w = suite.do(http.MethodDelete, "/api/prices/"+id, nil)
	assert.Equal(suite.T(), http.StatusOK, w.Code)

	w = suite.do(http.MethodGet, "/api/prices/"+id, nil)
	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
	assert.JSONEq(suite.T(), `{"error":"Precio no encontrado"}`, w.Body.String())

	w = suite.do(http.MethodGet, "/api/prices?productId=bad", nil)
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

func (suite *APITestSuite) multipartRequest(method, path string, fields map[string]string, file []byte) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		suite.Require().NoError(mw.WriteField(k, v))
	}
	if file != nil {
		fw, err := mw.CreateFormFile("image", "foto.png")
		suite.Require().NoError(err)
		_, err = fw.Write(file)
		suite.Require().NoError(err)
	}
	suite.Require().NoError(mw.Close())

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *APITestSuite) TestCreateProductWithImage() {
	w := suite.multipartRequest(http.MethodPost, "/api/products",
		map[string]string{"name": "Queso", "description": "Rallado"}, []byte("png-bytes"))

	assert.Equal(suite.T(), http.StatusCreated, w.Code, w.Body.String())
	var product map[string]interface{}
	suite.decode(w, &product)
	assert.Equal(suite.T(), "Queso", product["name"])
	assert.Equal(suite.T(), "https://cdn.example.com/productos-escasos/1_foto.png", product["image"])
	assert.Equal(suite.T(), 1, suite.uploader.calls)

	w = suite.multipartRequest(http.MethodPut, "/api/products/"+product["id"].(string),
		map[string]string{"description": "Fresco"}, nil)
	assert.Equal(suite.T(), http.StatusOK, w.Code, w.Body.String())
	suite.decode(w, &product)
	assert.Equal(suite.T(), "Fresco", product["description"])
	assert.Equal(suite.T(), "https://cdn.example.com/productos-escasos/1_foto.png", product["image"])
}

func (suite *APITestSuite) TestStoreMultipartImage() {
	w := suite.multipartRequest(http.MethodPost, "/api/stores",
		map[string]string{"name": "Mercado Central", "address": "Av. 1"}, []byte("png-bytes"))

	assert.Equal(suite.T(), http.StatusCreated, w.Code, w.Body.String())
	var store map[string]interface{}
	suite.decode(w, &store)
	assert.Equal(suite.T(), "Mercado Central", store["name"])
	assert.Equal(suite.T(), "https://cdn.example.com/productos-escasos/1_foto.png", store["image"])

	w = suite.multipartRequest(http.MethodPut, "/api/stores/"+store["id"].(string),
		map[string]string{"phone": "555-0101"}, []byte("otra"))
	assert.Equal(suite.T(), http.StatusOK, w.Code, w.Body.String())
	suite.decode(w, &store)
	assert.Equal(suite.T(), "555-0101", store["phone"])
	assert.Equal(suite.T(), "https://cdn.example.com/productos-escasos/2_foto.png", store["image"])
	assert.Equal(suite.T(), 2, suite.uploader.calls)
}

func (suite *APITestSuite) TestMultipartImageURLField() {
	w := suite.multipartRequest(http.MethodPost, "/api/products",
		map[string]string{"name": "Pan", "imageUrl": "https://img.example.com/pan.jpg"}, nil)

	assert.Equal(suite.T(), http.StatusCreated, w.Code, w.Body.String())
	var product map[string]interface{}
	suite.decode(w, &product)
	assert.Equal(suite.T(), "https://img.example.com/pan.jpg", product["image"])
	assert.Equal(suite.T(), 0, suite.uploader.calls)
}

func (suite *APITestSuite) TestUploadFailure() {
	suite.uploader.err = services.ErrUploadFailed

	w := suite.multipartRequest(http.MethodPost, "/api/stores", map[string]string{"name": "Tienda"}, []byte("x"))
	assert.Equal(suite.T(), http.StatusInternalServerError, w.Code)
	assert.JSONEq(suite.T(), `{"error":"Error al subir la imagen"}`, w.Body.String())

	suite.uploader.err = services.ErrInvalidImage
	w = suite.multipartRequest(http.MethodPost, "/api/uploads", nil, []byte("x"))
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)

	w = suite.multipartRequest(http.MethodPost, "/api/uploads", nil, nil)
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
	assert.JSONEq(suite.T(), `{"error":"No se recibió ninguna imagen"}`, w.Body.String())
}

func (suite *APITestSuite) TestUploadEndpoint() {
	w := suite.multipartRequest(http.MethodPost, "/api/uploads", nil, []byte("img"))

	assert.Equal(suite.T(), http.StatusCreated, w.Code, w.Body.String())
	var body map[string]interface{}
	suite.decode(w, &body)
	assert.Equal(suite.T(), "https://cdn.example.com/productos-escasos/1_foto.png", body["url"])
	assert.Equal(suite.T(), "Imagen subida exitosamente", body["message"])
}

func TestAPITestSuite(t *testing.T) {
	suite.Run(t, new(APITestSuite))
}
