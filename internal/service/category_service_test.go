package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/blogapi/internal/db"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupServiceTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:service-%d?mode=memory&cache=shared", time.Now().UnixNano())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}

	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}

	t.Cleanup(func() {
		sqlDB, err := gdb.DB()
		if err == nil {
			_ = sqlDB.Close()
		}
	})
	return gdb
}

func TestCategoryServiceResolveCreatesTrimmedCategory(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewCategoryService(gdb)

	category, err := svc.Resolve(context.Background(), "  Tech  ")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	if category.ID == 0 || category.Name != "Tech" {
		t.Fatalf("unexpected category: %+v", category)
	}
	if category.CreatedAt.IsZero() {
		t.Fatalf("expected createdAt to be set")
	}
}

func TestCategoryServiceResolveReusesExistingName(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewCategoryService(gdb)
	ctx := context.Background()

	first, err := svc.Resolve(ctx, "Tech")
	if err != nil {
		t.Fatalf("resolve first: %v", err)
	}
	second, err := svc.Resolve(ctx, " Tech ")
	if err != nil {
		t.Fatalf("resolve second: %v", err)
	}
	other, err := svc.Resolve(ctx, "tech")
	if err != nil {
		t.Fatalf("resolve other: %v", err)
	}

	if first.ID != second.ID {
		t.Fatalf("expected same category, got %d and %d", first.ID, second.ID)
	}
	if other.ID == first.ID {
		t.Fatalf("expected case-sensitive match to create a new category")
	}

	var count int64
	gdb.Model(&db.Category{}).Count(&count)
	if count != 2 {
		t.Fatalf("expected 2 categories, got %d", count)
	}
}

func TestCategoryServiceResolveBlankName(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewCategoryService(gdb)

	if err := gdb.Create(&db.Category{Name: "Existing"}).Error; err != nil {
		t.Fatalf("failed to seed category: %v", err)
	}

	category, err := svc.Resolve(context.Background(), "   ")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if category.Name != "" {
		t.Fatalf("expected blank category name, got %q", category.Name)
	}
}

func TestCategoryServiceListOrdersByName(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewCategoryService(gdb)

	for _, name := range []string{"Zed", "Alpha", "Beta"} {
		if err := gdb.Create(&db.Category{Name: name}).Error; err != nil {
			t.Fatalf("failed to seed category: %v", err)
		}
	}

	list, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 3 || list[0].Name != "Alpha" || list[1].Name != "Beta" || list[2].Name != "Zed" {
		t.Fatalf("unexpected order: %+v", list)
	}
}
