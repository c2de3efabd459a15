package repository

import (
	"errors"
	"fmt"
	"os"
	"testing"

	gormmysql "gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"agenthub/internal/model"
)

// These tests need a real MySQL because the behavior under test lives in the
// schema: unique indexes, foreign keys and their cascade directions. Set
// TEST_MYSQL_DSN to run them, e.g.
//
//	TEST_MYSQL_DSN="root:@tcp(127.0.0.1:3306)/agenthub_test?parseTime=true" go test ./internal/repository/
func setupDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := os.Getenv("TEST_MYSQL_DSN")
	if dsn == "" {
		t.Skip("TEST_MYSQL_DSN not set")
	}

	db, err := gorm.Open(gormmysql.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open mysql: %v", err)
	}

	if err := db.AutoMigrate(
		&model.User{},
		&model.Group{},
		&model.UserGroup{},
		&model.Category{},
		&model.Agent{},
		&model.AgentCategory{},
		&model.AgentGroup{},
		&model.AgentFile{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	// Children before parents so foreign keys do not block the cleanup.
	for _, table := range []string{
		"agent_files", "agent_categories", "agent_groups",
		"user_groups", "agents", "categories", "groups", "users",
	} {
		if err := db.Exec("DELETE FROM `" + table + "`").Error; err != nil {
			t.Fatalf("clean table %s: %v", table, err)
		}
	}
	return db
}

func createUser(t *testing.T, db *gorm.DB, username string) *model.User {
	t.Helper()
	user := &model.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "x",
		IsActive:     true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return user
}

func createAgent(t *testing.T, repo *AgentRepository, ownerID uint, name string, public bool) *model.Agent {
	t.Helper()
	agent := &model.Agent{
		Name:     name,
		Prompt:   "You are " + name + ".",
		Provider: "openai",
		IsPublic: public,
		OwnerID:  ownerID,
	}
	if err := repo.Create(agent); err != nil {
		t.Fatalf("create agent %s: %v", name, err)
	}
	return agent
}

func TestAgentNameUnique(t *testing.T) {
	db := setupDB(t)
	repo := NewAgentRepository(db)
	owner := createUser(t, db, "alice")
	other := createUser(t, db, "bob")

	createAgent(t, repo, owner.ID, "Research Helper", false)

	// The name is unique across owners, so a different user collides too.
	err := repo.Create(&model.Agent{
		Name:    "Research Helper",
		Prompt:  "p",
		OwnerID: other.ID,
	})
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Errorf("duplicate name error = %v, want gorm.ErrDuplicatedKey", err)
	}
}

func TestOwnershipScopedReads(t *testing.T) {
	db := setupDB(t)
	repo := NewAgentRepository(db)
	owner := createUser(t, db, "alice")
	stranger := createUser(t, db, "bob")

	agent := createAgent(t, repo, owner.ID, "Private Helper", false)

	got, err := repo.GetByIDAndOwnerID(agent.ID, owner.ID)
	if err != nil || got == nil {
		t.Fatalf("owner read = (%v, %v), want agent", got, err)
	}

	// A non-owner gets exactly what a missing id gets: nil, no error.
	got, err = repo.GetByIDAndOwnerID(agent.ID, stranger.ID)
	if err != nil {
		t.Fatalf("stranger read error: %v", err)
	}
	if got != nil {
		t.Error("stranger read returned the agent")
	}

	missing, err := repo.GetByIDAndOwnerID(99999, owner.ID)
	if err != nil || missing != nil {
		t.Errorf("missing id read = (%v, %v), want (nil, nil)", missing, err)
	}
}

func TestOwnershipScopedDelete(t *testing.T) {
	db := setupDB(t)
	repo := NewAgentRepository(db)
	owner := createUser(t, db, "alice")
	stranger := createUser(t, db, "bob")

	agent := createAgent(t, repo, owner.ID, "Helper", false)

	deleted, err := repo.DeleteByIDAndOwnerID(agent.ID, stranger.ID)
	if err != nil {
		t.Fatalf("stranger delete error: %v", err)
	}
	if deleted {
		t.Fatal("stranger delete removed the agent")
	}

	deleted, err = repo.DeleteByIDAndOwnerID(agent.ID, owner.ID)
	if err != nil {
		t.Fatalf("owner delete error: %v", err)
	}
	if !deleted {
		t.Error("owner delete reported no rows")
	}
}

func TestCategoryNameCaseInsensitive(t *testing.T) {
	db := setupDB(t)
	repo := NewCategoryRepository(db)

	if err := repo.Create(&model.Category{Name: "Coding Tools"}); err != nil {
		t.Fatalf("create category: %v", err)
	}

	got, err := repo.GetByNameFold("CODING tools")
	if err != nil {
		t.Fatalf("GetByNameFold() error: %v", err)
	}
	if got == nil {
		t.Fatal("GetByNameFold() missed a case-variant name")
	}
	// The stored casing is whatever the creator wrote.
	if got.Name != "Coding Tools" {
		t.Errorf("stored name = %q, want original casing", got.Name)
	}
}

func TestDeleteAgentCascades(t *testing.T) {
	db := setupDB(t)
	agentRepo := NewAgentRepository(db)
	categoryRepo := NewCategoryRepository(db)
	fileRepo := NewAgentFileRepository(db)
	owner := createUser(t, db, "alice")

	category := &model.Category{Name: "Writing Tools"}
	if err := categoryRepo.Create(category); err != nil {
		t.Fatalf("create category: %v", err)
	}
	agent := createAgent(t, agentRepo, owner.ID, "Writer", true)
	if err := agentRepo.AssignCategories(agent.ID, []uint{category.ID}); err != nil {
		t.Fatalf("assign categories: %v", err)
	}
	if err := fileRepo.Create(&model.AgentFile{
		AgentID:     agent.ID,
		Filename:    "style.pdf",
		ContentType: "application/pdf",
	}); err != nil {
		t.Fatalf("create file: %v", err)
	}

	if _, err := agentRepo.DeleteByIDAndOwnerID(agent.ID, owner.ID); err != nil {
		t.Fatalf("delete agent: %v", err)
	}

	var joins int64
	if err := db.Model(&model.AgentCategory{}).Where("agent_id = ?", agent.ID).Count(&joins).Error; err != nil {
		t.Fatalf("count joins: %v", err)
	}
	if joins != 0 {
		t.Errorf("%d category joins survived agent delete", joins)
	}

	files, err := fileRepo.ListByAgentID(agent.ID)
	if err != nil {
		t.Fatalf("list files: %v", err)
	}
	if len(files) != 0 {
		t.Errorf("%d files survived agent delete", len(files))
	}

	// The category itself is untouched.
	got, err := categoryRepo.GetByID(category.ID)
	if err != nil || got == nil {
		t.Errorf("category gone after agent delete: (%v, %v)", got, err)
	}
}

func TestDeleteCategoryCascadesJoinsOnly(t *testing.T) {
	db := setupDB(t)
	agentRepo := NewAgentRepository(db)
	categoryRepo := NewCategoryRepository(db)
	owner := createUser(t, db, "alice")

	category := &model.Category{Name: "Research Tools"}
	if err := categoryRepo.Create(category); err != nil {
		t.Fatalf("create category: %v", err)
	}
	agent := createAgent(t, agentRepo, owner.ID, "Researcher", true)
	if err := agentRepo.AssignCategories(agent.ID, []uint{category.ID}); err != nil {
		t.Fatalf("assign categories: %v", err)
	}

	deleted, err := categoryRepo.DeleteByID(category.ID)
	if err != nil || !deleted {
		t.Fatalf("delete category = (%v, %v)", deleted, err)
	}

	ids, err := agentRepo.ListCategoryIDs(agent.ID)
	if err != nil {
		t.Fatalf("list category ids: %v", err)
	}
	if len(ids) != 0 {
		t.Errorf("%d joins survived category delete", len(ids))
	}

	got, err := agentRepo.GetByID(agent.ID)
	if err != nil || got == nil {
		t.Errorf("agent gone after category delete: (%v, %v)", got, err)
	}
}

func TestDeleteUserCascadesAgents(t *testing.T) {
	db := setupDB(t)
	repo := NewAgentRepository(db)
	owner := createUser(t, db, "alice")

	agent := createAgent(t, repo, owner.ID, "Helper", false)

	if err := db.Delete(&model.User{}, owner.ID).Error; err != nil {
		t.Fatalf("delete user: %v", err)
	}

	got, err := repo.GetByID(agent.ID)
	if err != nil {
		t.Fatalf("get agent: %v", err)
	}
	if got != nil {
		t.Error("agent survived its owner's deletion")
	}
}

func TestAssignCategoriesUnknownID(t *testing.T) {
	db := setupDB(t)
	repo := NewAgentRepository(db)
	owner := createUser(t, db, "alice")
	agent := createAgent(t, repo, owner.ID, "Helper", false)

	err := repo.AssignCategories(agent.ID, []uint{99999})
	if !errors.Is(err, gorm.ErrForeignKeyViolated) {
		t.Errorf("assign unknown category error = %v, want gorm.ErrForeignKeyViolated", err)
	}
}

func TestListPublicFiltersByCategory(t *testing.T) {
	db := setupDB(t)
	agentRepo := NewAgentRepository(db)
	categoryRepo := NewCategoryRepository(db)
	owner := createUser(t, db, "alice")

	coding := &model.Category{Name: "Coding Tools"}
	writing := &model.Category{Name: "Writing Tools"}
	for _, c := range []*model.Category{coding, writing} {
		if err := categoryRepo.Create(c); err != nil {
			t.Fatalf("create category: %v", err)
		}
	}

	coder := createAgent(t, agentRepo, owner.ID, "Coder", true)
	writer := createAgent(t, agentRepo, owner.ID, "Writer", true)
	createAgent(t, agentRepo, owner.ID, "Secret", false)
	if err := agentRepo.AssignCategories(coder.ID, []uint{coding.ID}); err != nil {
		t.Fatalf("assign categories: %v", err)
	}
	if err := agentRepo.AssignCategories(writer.ID, []uint{writing.ID}); err != nil {
		t.Fatalf("assign categories: %v", err)
	}

	all, err := agentRepo.ListPublic(0, 20, 0)
	if err != nil {
		t.Fatalf("ListPublic() error: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("ListPublic(all) returned %d agents, want 2", len(all))
	}
	for _, a := range all {
		if !a.IsPublic {
			t.Errorf("private agent %q in public listing", a.Name)
		}
	}

	onlyCoding, err := agentRepo.ListPublic(coding.ID, 20, 0)
	if err != nil {
		t.Fatalf("ListPublic(category) error: %v", err)
	}
	if len(onlyCoding) != 1 || onlyCoding[0].ID != coder.ID {
		t.Errorf("ListPublic(coding) = %+v, want just the coder", onlyCoding)
	}
}

func TestListPublicUnknownCategoryEmpty(t *testing.T) {
	db := setupDB(t)
	agentRepo := NewAgentRepository(db)
	categoryRepo := NewCategoryRepository(db)
	owner := createUser(t, db, "alice")

	category := &model.Category{Name: "Coding Tools"}
	if err := categoryRepo.Create(category); err != nil {
		t.Fatalf("create category: %v", err)
	}
	agent := createAgent(t, agentRepo, owner.ID, "Coder", true)
	if err := agentRepo.AssignCategories(agent.ID, []uint{category.ID}); err != nil {
		t.Fatalf("assign categories: %v", err)
	}

	got, err := agentRepo.ListPublic(99999, 20, 0)
	if err != nil {
		t.Fatalf("ListPublic() error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("ListPublic(unknown category) = %+v, want empty", got)
	}
}

func TestListPublicPaginationStable(t *testing.T) {
	db := setupDB(t)
	repo := NewAgentRepository(db)
	owner := createUser(t, db, "alice")

	for i := 0; i < 5; i++ {
		createAgent(t, repo, owner.ID, fmt.Sprintf("Agent %d", i), true)
	}

	first, err := repo.ListPublic(0, 2, 0)
	if err != nil {
		t.Fatalf("page 1: %v", err)
	}
	second, err := repo.ListPublic(0, 2, 2)
	if err != nil {
		t.Fatalf("page 2: %v", err)
	}
	if len(first) != 2 || len(second) != 2 {
		t.Fatalf("page sizes = %d, %d; want 2, 2", len(first), len(second))
	}
	if first[1].ID >= second[0].ID {
		t.Error("pages overlap or are out of order")
	}
}

func TestAgentFileUniquePerAgent(t *testing.T) {
	db := setupDB(t)
	agentRepo := NewAgentRepository(db)
	fileRepo := NewAgentFileRepository(db)
	owner := createUser(t, db, "alice")

	a := createAgent(t, agentRepo, owner.ID, "Agent A", false)
	b := createAgent(t, agentRepo, owner.ID, "Agent B", false)

	if err := fileRepo.Create(&model.AgentFile{AgentID: a.ID, Filename: "doc.pdf", ContentType: "application/pdf"}); err != nil {
		t.Fatalf("create file: %v", err)
	}

	err := fileRepo.Create(&model.AgentFile{AgentID: a.ID, Filename: "doc.pdf", ContentType: "application/pdf"})
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Errorf("duplicate filename error = %v, want gorm.ErrDuplicatedKey", err)
	}

	// The same filename under a different agent is fine.
	if err := fileRepo.Create(&model.AgentFile{AgentID: b.ID, Filename: "doc.pdf", ContentType: "application/pdf"}); err != nil {
		t.Errorf("same filename, other agent: %v", err)
	}
}

func TestAgentFileRoundTrip(t *testing.T) {
	db := setupDB(t)
	agentRepo := NewAgentRepository(db)
	fileRepo := NewAgentFileRepository(db)
	owner := createUser(t, db, "alice")

	agent := createAgent(t, agentRepo, owner.ID, "Helper", false)
	in := &model.AgentFile{
		AgentID:     agent.ID,
		Filename:    "Style Guide.docx",
		ContentType: "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	}
	if err := fileRepo.Create(in); err != nil {
		t.Fatalf("create file: %v", err)
	}

	files, err := fileRepo.ListByAgentID(agent.ID)
	if err != nil {
		t.Fatalf("list files: %v", err)
	}
	if len(files) != 1 {
		t.Fatalf("listed %d files, want 1", len(files))
	}
	got := files[0]
	if got.Filename != in.Filename {
		t.Errorf("Filename = %q, want %q", got.Filename, in.Filename)
	}
	if got.ContentType != in.ContentType {
		t.Errorf("ContentType = %q, want %q", got.ContentType, in.ContentType)
	}
	if got.AgentID != agent.ID {
		t.Errorf("AgentID = %d, want %d", got.AgentID, agent.ID)
	}
	if got.CreatedAt.IsZero() {
		t.Error("CreatedAt not populated")
	}
}

func TestReplaceCategories(t *testing.T) {
	db := setupDB(t)
	agentRepo := NewAgentRepository(db)
	categoryRepo := NewCategoryRepository(db)
	owner := createUser(t, db, "alice")

	var ids []uint
	for _, name := range []string{"First Category", "Second Category", "Third Category"} {
		c := &model.Category{Name: name}
		if err := categoryRepo.Create(c); err != nil {
			t.Fatalf("create category: %v", err)
		}
		ids = append(ids, c.ID)
	}
	agent := createAgent(t, agentRepo, owner.ID, "Helper", true)

	if err := agentRepo.AssignCategories(agent.ID, ids[:2]); err != nil {
		t.Fatalf("assign: %v", err)
	}
	if err := agentRepo.ReplaceCategories(agent.ID, ids[2:]); err != nil {
		t.Fatalf("replace: %v", err)
	}

	got, err := agentRepo.ListCategoryIDs(agent.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 || got[0] != ids[2] {
		t.Errorf("categories after replace = %v, want [%d]", got, ids[2])
	}

	// Replacing with nothing clears the set.
	if err := agentRepo.ReplaceCategories(agent.ID, nil); err != nil {
		t.Fatalf("replace with empty: %v", err)
	}
	got, err = agentRepo.ListCategoryIDs(agent.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("categories after clearing = %v, want none", got)
	}
}
