package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/martshop/store-api/internal/core/ports"
)

// ProductHandler handles HTTP requests for product operations.
type ProductHandler struct {
	service ports.ProductService
}

func NewProductHandler(service ports.ProductService) *ProductHandler {
	return &ProductHandler{service: service}
}

// List handles GET /api/products.
//
// @Summary      List products (paged, filtered)
// @Tags         products
// @Produce      json
// @Param        page      query     int     false  "1-based page"   default(1)
// @Param        limit     query     int     false  "rows per page"  default(10)
// @Param        category  query     string  false  "exact category match"
// @Param        minPrice  query     number  false  "price lower bound"
// @Param        maxPrice  query     number  false  "price upper bound"
// @Success      200       {object}  listProductsResponse
// @Router       /products [get]
func (h *ProductHandler) List(c echo.Context) error {
	input := ports.ListProductsInput{
		Category: c.QueryParam("category"),
		MinPrice: queryFloat(c, "minPrice"),
		MaxPrice: queryFloat(c, "maxPrice"),
		Page:     queryInt(c, "page", 1),
		Limit:    queryInt(c, "limit", 10),
	}

	result, err := h.service.List(c.Request().Context(), input)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, listProductsResponse{
		TotalProducts:   result.Total,
		CurrentPage:     result.Page,
		ProductsPerPage: result.Limit,
		Products:        result.Items,
	})
}

// ListByCategory handles GET /api/products/category/:category, sorted by
// descending price.
//
// @Summary      List products of one category
// @Tags         products
// @Produce      json
// @Param        category  path      string  true   "category"
// @Param        page      query     int     false  "1-based page"   default(1)
// @Param        limit     query     int     false  "rows per page"  default(5)
// @Success      200       {object}  categoryProductsResponse
// @Router       /products/category/{category} [get]
func (h *ProductHandler) ListByCategory(c echo.Context) error {
	products, err := h.service.ListByCategory(
		c.Request().Context(),
		c.Param("category"),
		queryInt(c, "page", 1),
		queryInt(c, "limit", 5),
	)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, categoryProductsResponse{Products: products})
}

// Get handles GET /api/products/:id.
//
// @Summary      Get a product by id
// @Tags         products
// @Produce      json
// @Param        id   path      string  true  "product id"
// @Success      200  {object}  productResponse
// @Failure      404  {object}  messageResponse
// @Router       /products/{id} [get]
func (h *ProductHandler) Get(c echo.Context) error {
	product, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, productResponse{Product: product})
}

// Create handles POST /api/products.
//
// @Summary      Create a product
// @Tags         products
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createProductRequest  true  "Product details"
// @Success      201   {object}  productResponse
// @Failure      400   {object}  validationResponse
// @Failure      401   {object}  messageResponse
// @Failure      403   {object}  messageResponse
// @Router       /products [post]
func (h *ProductHandler) Create(c echo.Context) error {
	var req createProductRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	product, err := h.service.Create(c.Request().Context(), ports.CreateProductInput{
		Name:     req.Name,
		Category: req.Category,
		Price:    req.Price,
		Quantity: req.Quantity,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, productResponse{
		Product: product,
		Message: "Product created successfully",
	})
}

// Update handles PUT /api/products/:id. Partial merge, like user update.
//
// @Summary      Update a product
// @Tags         products
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                true  "product id"
// @Param        body  body      updateProductRequest  true  "Fields to update"
// @Success      200   {object}  productResponse
// @Failure      400   {object}  validationResponse
// @Failure      404   {object}  messageResponse
// @Router       /products/{id} [put]
func (h *ProductHandler) Update(c echo.Context) error {
	var req updateProductRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	product, err := h.service.Update(c.Request().Context(), c.Param("id"), ports.UpdateProductInput{
		Name:     req.Name,
		Category: req.Category,
		Price:    req.Price,
		Quantity: req.Quantity,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, productResponse{
		Product: product,
		Message: "Product updated successfully",
	})
}

// Delete handles DELETE /api/products/:id.
//
// @Summary      Soft-delete a product
// @Tags         products
// @Security     BearerAuth
// @Param        id  path  string  true  "product id"
// @Success      204
// @Failure      401  {object}  messageResponse
// @Failure      403  {object}  messageResponse
// @Failure      404  {object}  messageResponse
// @Router       /products/{id} [delete]
func (h *ProductHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// queryFloat reads an optional float query parameter; nil means absent or junk.
func queryFloat(c echo.Context, name string) *float64 {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &f
}
