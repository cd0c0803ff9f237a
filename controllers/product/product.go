package productcontroller

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/sipwell/storefront-api/cache"
	"github.com/sipwell/storefront-api/models"
)

const catalogCacheKey = "catalog:products"

type ProductInput struct {
	Name         string  `json:"name" binding:"required"`
	Description  string  `json:"description"`
	Price        float64 `json:"price" binding:"required,gt=0"`
	RegularPrice float64 `json:"regular_price"`
	Image        string  `json:"image"` // URL in hosted object storage
	SizeML       int     `json:"size_ml"`
	Customizable bool    `json:"customizable"`
	Featured     bool    `json:"featured"`
	Stock        int     `json:"stock"`
	CategoryIDs  []uint  `json:"category_ids"`
}

// GetProductByID returns a single product with its categories.
// URL param: /products/:id
func GetProductByID(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
			return
		}

		var product models.Product
		if err := db.Preload("Categories").First(&product, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve product"})
			}
			return
		}
		c.JSON(http.StatusOK, product)
	}
}

// GetProducts lists the catalog with filtering and sorting. The unfiltered
// listing is served from cache when possible; filters always hit the store.
func GetProducts(db *gorm.DB, cc *cache.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		search := c.Query("search")
		categoryID := c.Query("category_id")
		minPriceStr := c.Query("min_price")
		maxPriceStr := c.Query("max_price")
		sortBy := c.DefaultQuery("sort_by", "created_at")
		sortOrder := strings.ToLower(c.DefaultQuery("order", "desc"))
		if sortOrder != "asc" && sortOrder != "desc" {
			sortOrder = "desc"
		}

		unfiltered := search == "" && categoryID == "" && minPriceStr == "" && maxPriceStr == "" &&
			sortBy == "created_at" && sortOrder == "desc"
		if unfiltered {
			var cached []models.Product
			if cc.GetJSON(c.Request.Context(), catalogCacheKey, &cached) {
				c.JSON(http.StatusOK, cached)
				return
			}
		}

		query := db.Model(&models.Product{}).Preload("Categories")

		if search != "" {
			likePattern := "%" + search + "%"
			query = query.Where("name ILIKE ? OR description ILIKE ?", likePattern, likePattern)
		}

		if minPriceStr != "" {
			mp, err := strconv.ParseFloat(minPriceStr, 64)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid min_price"})
				return
			}
			query = query.Where("price >= ?", mp)
		}
		if maxPriceStr != "" {
			mp, err := strconv.ParseFloat(maxPriceStr, 64)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid max_price"})
				return
			}
			query = query.Where("price <= ?", mp)
		}

		if categoryID != "" {
			cid, err := strconv.ParseUint(categoryID, 10, 64)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category_id"})
				return
			}
			query = query.
				Joins("JOIN product_categories pc ON pc.product_id = products.id").
				Where("pc.category_id = ?", uint(cid))
		}

		// Whitelist sort columns; sort params come straight from the client.
		switch sortBy {
		case "created_at", "price", "name":
		default:
			sortBy = "created_at"
		}

		var products []models.Product
		if err := query.Order(fmt.Sprintf("%s %s", sortBy, sortOrder)).Find(&products).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
			return
		}

		if unfiltered {
			cc.SetJSON(c.Request.Context(), catalogCacheKey, products, 2*time.Minute)
		}
		c.JSON(http.StatusOK, products)
	}
}

// CreateProduct adds a product to the catalog. Images live in hosted object
// storage; only the URL is persisted here.
func CreateProduct(db *gorm.DB, cc *cache.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input ProductInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		var categories []models.Category
		if len(input.CategoryIDs) > 0 {
			if err := db.Where("id IN ?", input.CategoryIDs).Find(&categories).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch categories"})
				return
			}
		}

		product := models.Product{
			Name:         input.Name,
			Description:  input.Description,
			Price:        input.Price,
			RegularPrice: input.RegularPrice,
			Image:        input.Image,
			SizeML:       input.SizeML,
			Customizable: input.Customizable,
			Featured:     input.Featured,
			Stock:        input.Stock,
			Categories:   categories,
		}

		if err := db.Create(&product).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create product"})
			return
		}

		cc.Invalidate(c.Request.Context(), catalogCacheKey)
		c.JSON(http.StatusCreated, product)
	}
}

// UpdateProduct replaces mutable product fields.
func UpdateProduct(db *gorm.DB, cc *cache.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
			return
		}

		var product models.Product
		if err := db.First(&product, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load product"})
			return
		}

		var input ProductInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		err = db.Transaction(func(tx *gorm.DB) error {
			product.Name = input.Name
			product.Description = input.Description
			product.Price = input.Price
			product.RegularPrice = input.RegularPrice
			product.Image = input.Image
			product.SizeML = input.SizeML
			product.Customizable = input.Customizable
			product.Featured = input.Featured
			product.Stock = input.Stock

			if err := tx.Save(&product).Error; err != nil {
				return err
			}

			if input.CategoryIDs != nil {
				var categories []models.Category
				if err := tx.Where("id IN ?", input.CategoryIDs).Find(&categories).Error; err != nil {
					return err
				}
				if err := tx.Model(&product).Association("Categories").Replace(categories); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update product"})
			return
		}

		cc.Invalidate(c.Request.Context(), catalogCacheKey)
		c.JSON(http.StatusOK, product)
	}
}

// DeleteProduct soft-deletes a product. Historical orders keep their
// snapshots, so nothing downstream breaks.
func DeleteProduct(db *gorm.DB, cc *cache.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
			return
		}

		result := db.Delete(&models.Product{}, id)
		if result.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete product"})
			return
		}
		if result.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}

		cc.Invalidate(c.Request.Context(), catalogCacheKey)
		c.JSON(http.StatusOK, gin.H{"message": "Product deleted"})
	}
}
