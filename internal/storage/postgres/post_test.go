package postgres

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/VitaminP8/goddit/internal/apperrors"
	"github.com/VitaminP8/goddit/internal/auth"
	"github.com/VitaminP8/goddit/models"
	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/sqlite" // Импортируем драйвер SQLite
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Создает контекст с ID пользователя
func createUserContext(userID uint) context.Context {
	ctx := context.Background()
	return auth.WithUserID(ctx, userID)
}

// setupTestDB создает тестовую БД в памяти и выполняет миграции
func setupTestDB(t *testing.T) *gorm.DB {
	// Сохраняем оригинальное соединение (если оно есть)
	oldDB := GetDB()

	// Создаем SQLite в памяти
	db, err := gorm.Open("sqlite3", ":memory:")
	require.NoError(t, err, "Failed to connect to in-memory SQLite")

	// Включаем foreign keys в SQLite
	db.Exec("PRAGMA foreign_keys = ON")
	// Отключаем логирование запросов для тестов
	db.LogMode(false)
	// in-memory SQLite живет в одном соединении
	db.DB().SetMaxOpenConns(1)
	// Выполняем миграцию схемы базы данных
	err = db.AutoMigrate(&models.User{}, &models.Post{}, &models.Upvote{}).Error
	require.NoError(t, err, "Failed to migrate database schema")
	// Устанавливаем SQLite в качестве глобальной DB
	InitDBWithConnection(db)

	return oldDB
}

// teardownTestDB восстанавливает оригинальную базу данных
func teardownTestDB(db *gorm.DB) {
	// Восстанавливаем оригинальное соединение
	InitDBWithConnection(db)
}

// createTestUser создает тестового пользователя и возвращает его ID
func createTestUser(t *testing.T) uint {
	user := &models.User{
		Username: "testuser",
		Email:    "test@example.com",
		Password: "password123",
	}

	err := DB.Create(user).Error
	require.NoError(t, err, "Failed to create test user")

	return user.ID
}

// createAnotherTestUser создает второго пользователя (не автора)
func createAnotherTestUser(t *testing.T) uint {
	user := &models.User{
		Username: "anotheruser",
		Email:    "another@example.com",
		Password: "password123",
	}

	err := DB.Create(user).Error
	require.NoError(t, err, "Failed to create test user")

	return user.ID
}

// createTestPost создает тестовый пост и возвращает его ID
func createTestPost(t *testing.T, userID uint, title, text string) uint {
	post := &models.Post{
		Title:  title,
		Text:   text,
		UserID: userID,
	}

	err := DB.Create(post).Error
	require.NoError(t, err, "Failed to create test post")

	return post.ID
}

// createTestPostAt создает пост с заданным временем создания (для пагинации)
func createTestPostAt(t *testing.T, userID uint, title string, createdAt time.Time) uint {
	post := &models.Post{
		Model:  gorm.Model{CreatedAt: createdAt, UpdatedAt: createdAt},
		Title:  title,
		Text:   "text of " + title,
		UserID: userID,
	}

	err := DB.Create(post).Error
	require.NoError(t, err, "Failed to create test post")

	return post.ID
}

func TestPostPostgresStorage_CreatePost(t *testing.T) {
	storage := NewPostPostgresStorage()

	t.Run("Success post creation", func(t *testing.T) {
		// Настраиваем тестовую БД
		oldDB := setupTestDB(t)
		defer teardownTestDB(oldDB)

		userID := createTestUser(t)
		ctx := createUserContext(userID)

		testTitle := "Test Post Title"
		testText := "This is a test post text"
		post, err := storage.CreatePost(ctx, testTitle, testText)
		assert.NoError(t, err)
		assert.NotNil(t, post)
		assert.Equal(t, testTitle, post.Title)
		assert.Equal(t, testText, post.Text)
		assert.Equal(t, fmt.Sprint(userID), post.UserID)
		assert.Equal(t, 0, post.Points)

		// Проверяем, что пост действительно создался в БД
		var dbPost models.Post
		err = DB.First(&dbPost, post.ID).Error
		assert.NoError(t, err)
		assert.Equal(t, testTitle, dbPost.Title)
		assert.Equal(t, testText, dbPost.Text)
		assert.Equal(t, userID, dbPost.UserID)
	})

	t.Run("Error: no authorization", func(t *testing.T) {
		// Настраиваем тестовую БД
		oldDB := setupTestDB(t)
		defer teardownTestDB(oldDB)

		ctx := context.Background()
		post, err := storage.CreatePost(ctx, "Test Title", "Test Text")
		assert.Error(t, err)
		assert.Nil(t, post)
		assert.ErrorIs(t, err, apperrors.ErrUnauthenticated)
	})
}

func TestPostPostgresStorage_GetPostById(t *testing.T) {
	storage := NewPostPostgresStorage()

	t.Run("Getting exists post", func(t *testing.T) {
		// Настраиваем тестовую БД
		oldDB := setupTestDB(t)
		defer teardownTestDB(oldDB)

		userID := createTestUser(t)

		testTitle := "Test Post Title"
		testText := "This is a test post text"
		postID := createTestPost(t, userID, testTitle, testText)
		post, err := storage.GetPostById(fmt.Sprint(postID))
		assert.NoError(t, err)
		assert.NotNil(t, post)
		assert.Equal(t, fmt.Sprint(postID), post.ID)
		assert.Equal(t, testTitle, post.Title)
		assert.Equal(t, testText, post.Text)
		assert.Equal(t, fmt.Sprint(userID), post.UserID)
	})

	t.Run("Trying to get not exist post", func(t *testing.T) {
		// Настраиваем тестовую БД
		oldDB := setupTestDB(t)
		defer teardownTestDB(oldDB)

		post, err := storage.GetPostById("999")
		assert.Error(t, err)
		assert.Nil(t, post)
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})
}

func TestPostPostgresStorage_ListPosts(t *testing.T) {
	storage := NewPostPostgresStorage()
	base := time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)

	t.Run("Empty feed", func(t *testing.T) {
		oldDB := setupTestDB(t)
		defer teardownTestDB(oldDB)

		page, err := storage.ListPosts(10, nil)
		assert.NoError(t, err)
		require.NotNil(t, page)
		assert.Equal(t, 0, page.TotalCount)
		assert.Empty(t, page.PaginatedPosts)
		assert.Nil(t, page.Cursor)
		assert.False(t, page.HasMore)
	})

	t.Run("Limit is capped at max page size", func(t *testing.T) {
		oldDB := setupTestDB(t)
		defer teardownTestDB(oldDB)

		userID := createTestUser(t)
		for i := 0; i < 12; i++ {
			createTestPostAt(t, userID, fmt.Sprintf("Post %d", i), base.Add(time.Duration(i)*time.Minute))
		}

		page, err := storage.ListPosts(100, nil)
		assert.NoError(t, err)
		require.NotNil(t, page)
		assert.Equal(t, 12, page.TotalCount)
		assert.Len(t, page.PaginatedPosts, 10)
		assert.True(t, page.HasMore)

		// порядок — от новых к старым
		assert.Equal(t, "Post 11", page.PaginatedPosts[0].Title)
		assert.Equal(t, "Post 2", page.PaginatedPosts[9].Title)
	})

	t.Run("Fewer posts than limit", func(t *testing.T) {
		oldDB := setupTestDB(t)
		defer teardownTestDB(oldDB)

		userID := createTestUser(t)
		for i := 0; i < 3; i++ {
			createTestPostAt(t, userID, fmt.Sprintf("Post %d", i), base.Add(time.Duration(i)*time.Minute))
		}

		page, err := storage.ListPosts(10, nil)
		assert.NoError(t, err)
		require.NotNil(t, page)
		assert.Equal(t, 3, page.TotalCount)
		assert.Len(t, page.PaginatedPosts, 3)
		assert.False(t, page.HasMore)
	})

	t.Run("Cursor walks the feed in disjoint pages", func(t *testing.T) {
		oldDB := setupTestDB(t)
		defer teardownTestDB(oldDB)

		userID := createTestUser(t)
		for i := 0; i < 8; i++ {
			createTestPostAt(t, userID, fmt.Sprintf("Post %d", i), base.Add(time.Duration(i)*time.Minute))
		}

		first, err := storage.ListPosts(5, nil)
		require.NoError(t, err)
		require.Len(t, first.PaginatedPosts, 5)
		assert.True(t, first.HasMore)
		require.NotNil(t, first.Cursor)

		second, err := storage.ListPosts(5, first.Cursor)
		require.NoError(t, err)
		require.Len(t, second.PaginatedPosts, 3)
		assert.False(t, second.HasMore)

		// страницы не пересекаются
		seen := make(map[string]bool)
		for _, p := range first.PaginatedPosts {
			seen[p.ID] = true
		}
		for _, p := range second.PaginatedPosts {
			assert.False(t, seen[p.ID], "post %s appeared on both pages", p.ID)
		}

		// вторая страница заканчивается самым старым постом
		assert.Equal(t, "Post 0", second.PaginatedPosts[2].Title)
	})

	t.Run("HasMore is false exactly at the oldest post", func(t *testing.T) {
		oldDB := setupTestDB(t)
		defer teardownTestDB(oldDB)

		userID := createTestUser(t)
		for i := 0; i < 6; i++ {
			createTestPostAt(t, userID, fmt.Sprintf("Post %d", i), base.Add(time.Duration(i)*time.Minute))
		}

		first, err := storage.ListPosts(3, nil)
		require.NoError(t, err)
		assert.True(t, first.HasMore)

		second, err := storage.ListPosts(3, first.Cursor)
		require.NoError(t, err)
		require.Len(t, second.PaginatedPosts, 3)
		assert.False(t, second.HasMore)
	})

	t.Run("Non-positive limit still returns a post", func(t *testing.T) {
		oldDB := setupTestDB(t)
		defer teardownTestDB(oldDB)

		userID := createTestUser(t)
		createTestPostAt(t, userID, "Only Post", base)
		createTestPostAt(t, userID, "Newer Post", base.Add(time.Minute))

		page, err := storage.ListPosts(0, nil)
		assert.NoError(t, err)
		require.NotNil(t, page)
		assert.Len(t, page.PaginatedPosts, 1)
		assert.Equal(t, "Newer Post", page.PaginatedPosts[0].Title)
		assert.True(t, page.HasMore)
	})
}

func TestPostPostgresStorage_UpdatePost(t *testing.T) {
	storage := NewPostPostgresStorage()

	t.Run("Update post by author", func(t *testing.T) {
		oldDB := setupTestDB(t)
		defer teardownTestDB(oldDB)

		userID := createTestUser(t)
		postID := createTestPost(t, userID, "Old Title", "Old Text")

		ctx := createUserContext(userID)

		post, err := storage.UpdatePost(ctx, fmt.Sprint(postID), "New Title", "New Text")
		assert.NoError(t, err)
		require.NotNil(t, post)
		assert.Equal(t, "New Title", post.Title)
		assert.Equal(t, "New Text", post.Text)

		var dbPost models.Post
		err = DB.First(&dbPost, postID).Error
		assert.NoError(t, err)
		assert.Equal(t, "New Title", dbPost.Title)
		assert.Equal(t, "New Text", dbPost.Text)
	})

	t.Run("Update post by not author", func(t *testing.T) {
		oldDB := setupTestDB(t)
		defer teardownTestDB(oldDB)

		authorID := createTestUser(t)
		anotherID := createAnotherTestUser(t)
		postID := createTestPost(t, authorID, "Test Post", "Test Text")

		ctx := createUserContext(anotherID)

		post, err := storage.UpdatePost(ctx, fmt.Sprint(postID), "New Title", "New Text")
		assert.Error(t, err)
		assert.Nil(t, post)
		assert.ErrorIs(t, err, apperrors.ErrForbidden)

		// пост не изменился
		var dbPost models.Post
		err = DB.First(&dbPost, postID).Error
		assert.NoError(t, err)
		assert.Equal(t, "Test Post", dbPost.Title)
	})

	t.Run("Update not exist post", func(t *testing.T) {
		oldDB := setupTestDB(t)
		defer teardownTestDB(oldDB)

		userID := createTestUser(t)
		ctx := createUserContext(userID)

		post, err := storage.UpdatePost(ctx, "999", "New Title", "New Text")
		assert.Error(t, err)
		assert.Nil(t, post)
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})

	t.Run("Update by unauthorized user", func(t *testing.T) {
		oldDB := setupTestDB(t)
		defer teardownTestDB(oldDB)

		userID := createTestUser(t)
		postID := createTestPost(t, userID, "Test Post", "Test Text")

		ctx := context.Background()

		post, err := storage.UpdatePost(ctx, fmt.Sprint(postID), "New Title", "New Text")
		assert.Error(t, err)
		assert.Nil(t, post)
		assert.ErrorIs(t, err, apperrors.ErrUnauthenticated)
	})
}

func TestPostPostgresStorage_DeletePostById(t *testing.T) {
	storage := NewPostPostgresStorage()

	t.Run("Delete post by author", func(t *testing.T) {
		// Настраиваем тестовую БД
		oldDB := setupTestDB(t)
		defer teardownTestDB(oldDB)

		userID := createTestUser(t)
		postID := createTestPost(t, userID, "Test Post", "Test Text")

		ctx := createUserContext(userID)

		err := storage.DeletePostById(ctx, fmt.Sprint(postID))
		assert.NoError(t, err)

		// Проверяем, что пост действительно удален из БД
		var post models.Post
		err = DB.First(&post, postID).Error
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "record not found")
	})

	t.Run("Delete removes votes of the post", func(t *testing.T) {
		oldDB := setupTestDB(t)
		defer teardownTestDB(oldDB)

		userID := createTestUser(t)
		postID := createTestPost(t, userID, "Test Post", "Test Text")

		err := DB.Create(&models.Upvote{UserID: userID, PostID: postID, Value: 1}).Error
		require.NoError(t, err)

		ctx := createUserContext(userID)
		err = storage.DeletePostById(ctx, fmt.Sprint(postID))
		assert.NoError(t, err)

		var count int
		err = DB.Model(&models.Upvote{}).Where("post_id = ?", postID).Count(&count).Error
		assert.NoError(t, err)
		assert.Equal(t, 0, count)
	})

	t.Run("Delete not exist post", func(t *testing.T) {
		// Настраиваем тестовую БД
		oldDB := setupTestDB(t)
		defer teardownTestDB(oldDB)

		userID := createTestUser(t)
		ctx := createUserContext(userID)

		err := storage.DeletePostById(ctx, "999")
		assert.Error(t, err)
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})

	t.Run("Delete post by not author", func(t *testing.T) {
		// Настраиваем тестовую БД
		oldDB := setupTestDB(t)
		defer teardownTestDB(oldDB)

		authorID := createTestUser(t)
		anotherID := createAnotherTestUser(t)

		// Создаем тестовый пост от имени первого пользователя
		postID := createTestPost(t, authorID, "Test Post", "Test Text")

		// Создаем контекст с ID второго пользователя (не автора)
		ctx := createUserContext(anotherID)

		err := storage.DeletePostById(ctx, fmt.Sprint(postID))
		assert.Error(t, err)
		assert.ErrorIs(t, err, apperrors.ErrForbidden)

		// Проверяем, что пост не был удален
		var post models.Post
		err = DB.First(&post, postID).Error
		assert.NoError(t, err)
		assert.Equal(t, "Test Post", post.Title)
	})

	t.Run("Delete by unauthorized user", func(t *testing.T) {
		// Настраиваем тестовую БД
		oldDB := setupTestDB(t)
		defer teardownTestDB(oldDB)

		userID := createTestUser(t)
		postID := createTestPost(t, userID, "Test Post", "Test Text")

		ctx := context.Background()

		err := storage.DeletePostById(ctx, fmt.Sprint(postID))
		assert.Error(t, err)
		assert.ErrorIs(t, err, apperrors.ErrUnauthenticated)

		// Проверяем, что пост не был удален
		var post models.Post
		err = DB.First(&post, postID).Error
		assert.NoError(t, err)
		assert.Equal(t, "Test Post", post.Title)
	})
}

// Тестирование многопоточности с использованием SQLite в режиме in-memory не имеет смысла —
// SQLite не предназначен для интенсивного параллельного доступа.
// Конкурентные сценарии голосования покрыты тестами in-memory хранилища.
