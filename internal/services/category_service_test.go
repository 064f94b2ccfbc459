package services

import (
	"testing"
	"time"

	"moneybook/internal/models"
	"moneybook/internal/testutil"
)

func TestCreateCategory(t *testing.T) {
	t.Run("root", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)

		category, err := svc.CreateCategory(CreateCategoryParams{Kind: models.KindExpense, Name: "饮食", Color: "#FF0000"})
		testutil.AssertNoError(t, err)

		if category.ID == "" {
			t.Fatal("expected non-empty category ID")
		}
		if !category.IsRoot() {
			t.Error("expected category without parent to be a root")
		}
		if !category.Enabled {
			t.Error("expected new category to be enabled")
		}
	})

	t.Run("child", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		root := testutil.CreateTestRootCategory(t, db, models.KindExpense)

		child, err := svc.CreateCategory(CreateCategoryParams{Kind: models.KindExpense, Name: "早餐", ParentID: &root.ID})
		testutil.AssertNoError(t, err)

		if child.ParentID == nil || *child.ParentID != root.ID {
			t.Errorf("expected parent %s, got %v", root.ID, child.ParentID)
		}
		if child.RootID() != root.ID {
			t.Errorf("expected root ID %s, got %s", root.ID, child.RootID())
		}
	})

	t.Run("invalid_kind", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)

		_, err := svc.CreateCategory(CreateCategoryParams{Kind: "loan", Name: "贷款"})
		testutil.AssertAppError(t, err, "INVALID_ARGUMENT")
	})

	t.Run("invalid_color", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)

		_, err := svc.CreateCategory(CreateCategoryParams{Kind: models.KindExpense, Name: "饮食", Color: "red"})
		testutil.AssertAppError(t, err, "INVALID_ARGUMENT")
	})
}

func TestListRootCategories(t *testing.T) {
	t.Run("filters_kind_and_disabled", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)

		eat := testutil.CreateTestRootCategoryWithName(t, db, "饮食", models.KindExpense)
		travel := testutil.CreateTestRootCategoryWithName(t, db, "交通", models.KindExpense)
		testutil.CreateTestRootCategoryWithName(t, db, "工资", models.KindIncome)

		testutil.AssertNoError(t, svc.SetCategoryEnabled(travel.ID, false))

		roots, err := svc.ListRootCategories(models.KindExpense, false)
		testutil.AssertNoError(t, err)
		if len(roots) != 1 || roots[0].ID != eat.ID {
			t.Fatalf("expected only the enabled expense root, got %d roots", len(roots))
		}

		all, err := svc.ListRootCategories(models.KindExpense, true)
		testutil.AssertNoError(t, err)
		if len(all) != 2 {
			t.Errorf("expected 2 expense roots with disabled included, got %d", len(all))
		}
	})

	t.Run("excludes_children", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)

		root := testutil.CreateTestRootCategory(t, db, models.KindExpense)
		testutil.CreateTestChildCategory(t, db, root)

		roots, err := svc.ListRootCategories(models.KindExpense, true)
		testutil.AssertNoError(t, err)
		if len(roots) != 1 {
			t.Errorf("expected 1 root, got %d", len(roots))
		}
	})
}

func TestListChildren(t *testing.T) {
	t.Run("only_children_of_root", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)

		root := testutil.CreateTestRootCategory(t, db, models.KindExpense)
		other := testutil.CreateTestRootCategory(t, db, models.KindExpense)
		child := testutil.CreateTestChildCategory(t, db, root)
		testutil.CreateTestChildCategory(t, db, other)

		children, err := svc.ListChildren(root.ID, false)
		testutil.AssertNoError(t, err)
		if len(children) != 1 || children[0].ID != child.ID {
			t.Fatalf("expected only %s under root, got %d children", child.ID, len(children))
		}
	})

	t.Run("filters_disabled", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)

		root := testutil.CreateTestRootCategory(t, db, models.KindExpense)
		keep := testutil.CreateTestChildCategory(t, db, root)
		hidden := testutil.CreateTestChildCategory(t, db, root)
		testutil.AssertNoError(t, svc.SetCategoryEnabled(hidden.ID, false))

		children, err := svc.ListChildren(root.ID, false)
		testutil.AssertNoError(t, err)
		if len(children) != 1 || children[0].ID != keep.ID {
			t.Fatalf("expected only the enabled child, got %d children", len(children))
		}
	})
}

func TestSetCategoryEnabled(t *testing.T) {
	t.Run("disable_root_cascades_to_children", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)

		root := testutil.CreateTestRootCategory(t, db, models.KindExpense)
		child := testutil.CreateTestChildCategory(t, db, root)

		testutil.AssertNoError(t, svc.SetCategoryEnabled(root.ID, false))

		gotRoot, err := svc.GetCategoryByID(root.ID)
		testutil.AssertNoError(t, err)
		gotChild, err := svc.GetCategoryByID(child.ID)
		testutil.AssertNoError(t, err)

		if gotRoot.Enabled {
			t.Error("expected root to be disabled")
		}
		if gotChild.Enabled {
			t.Error("expected child to be disabled along with its root")
		}
	})

	t.Run("enable_root_leaves_children_disabled", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)

		root := testutil.CreateTestRootCategory(t, db, models.KindExpense)
		child := testutil.CreateTestChildCategory(t, db, root)

		testutil.AssertNoError(t, svc.SetCategoryEnabled(root.ID, false))
		testutil.AssertNoError(t, svc.SetCategoryEnabled(root.ID, true))

		gotRoot, err := svc.GetCategoryByID(root.ID)
		testutil.AssertNoError(t, err)
		gotChild, err := svc.GetCategoryByID(child.ID)
		testutil.AssertNoError(t, err)

		if !gotRoot.Enabled {
			t.Error("expected root to be enabled again")
		}
		if gotChild.Enabled {
			t.Error("expected child to stay disabled until re-enabled individually")
		}
	})

	t.Run("disable_child_only", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)

		root := testutil.CreateTestRootCategory(t, db, models.KindExpense)
		child := testutil.CreateTestChildCategory(t, db, root)
		sibling := testutil.CreateTestChildCategory(t, db, root)

		testutil.AssertNoError(t, svc.SetCategoryEnabled(child.ID, false))

		gotRoot, err := svc.GetCategoryByID(root.ID)
		testutil.AssertNoError(t, err)
		gotSibling, err := svc.GetCategoryByID(sibling.ID)
		testutil.AssertNoError(t, err)

		if !gotRoot.Enabled || !gotSibling.Enabled {
			t.Error("expected disabling a child to leave the root and siblings alone")
		}
	})

	t.Run("not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)

		err := svc.SetCategoryEnabled("missing-id", false)
		testutil.AssertAppError(t, err, "CATEGORY_NOT_FOUND")
	})
}

func TestReparentChild(t *testing.T) {
	t.Run("rewrites_rollups", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		txSvc := NewTransactionService(db)

		oldRoot := testutil.CreateTestRootCategory(t, db, models.KindExpense)
		newRoot := testutil.CreateTestRootCategory(t, db, models.KindExpense)
		child := testutil.CreateTestChildCategory(t, db, oldRoot)

		moved, err := txSvc.AddTransaction(TransactionParams{Kind: models.KindExpense, Amount: 500, CategoryID: &child.ID})
		testutil.AssertNoError(t, err)
		untouched, err := txSvc.AddTransaction(TransactionParams{Kind: models.KindExpense, Amount: 300, CategoryID: &oldRoot.ID})
		testutil.AssertNoError(t, err)

		testutil.AssertNoError(t, svc.ReparentChild(child.ID, newRoot.ID))

		gotChild, err := svc.GetCategoryByID(child.ID)
		testutil.AssertNoError(t, err)
		if gotChild.ParentID == nil || *gotChild.ParentID != newRoot.ID {
			t.Errorf("expected child parent %s, got %v", newRoot.ID, gotChild.ParentID)
		}

		gotMoved, err := txSvc.GetTransactionByID(moved.ID)
		testutil.AssertNoError(t, err)
		if gotMoved.RootCategoryID == nil || *gotMoved.RootCategoryID != newRoot.ID {
			t.Errorf("expected roll-up rewritten to %s, got %v", newRoot.ID, gotMoved.RootCategoryID)
		}

		gotUntouched, err := txSvc.GetTransactionByID(untouched.ID)
		testutil.AssertNoError(t, err)
		if gotUntouched.RootCategoryID == nil || *gotUntouched.RootCategoryID != oldRoot.ID {
			t.Errorf("expected unrelated roll-up to stay %s, got %v", oldRoot.ID, gotUntouched.RootCategoryID)
		}
	})

	t.Run("rejects_root_as_child", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)

		rootA := testutil.CreateTestRootCategory(t, db, models.KindExpense)
		rootB := testutil.CreateTestRootCategory(t, db, models.KindExpense)

		err := svc.ReparentChild(rootA.ID, rootB.ID)
		testutil.AssertAppError(t, err, "INVALID_ARGUMENT")
	})

	t.Run("rejects_child_as_target", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)

		root := testutil.CreateTestRootCategory(t, db, models.KindExpense)
		child := testutil.CreateTestChildCategory(t, db, root)
		other := testutil.CreateTestChildCategory(t, db, root)

		err := svc.ReparentChild(child.ID, other.ID)
		testutil.AssertAppError(t, err, "INVALID_ARGUMENT")
	})

	t.Run("missing_ids", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		root := testutil.CreateTestRootCategory(t, db, models.KindExpense)
		child := testutil.CreateTestChildCategory(t, db, root)

		err := svc.ReparentChild("missing-id", root.ID)
		testutil.AssertAppError(t, err, "INVALID_ARGUMENT")

		err = svc.ReparentChild(child.ID, "missing-id")
		testutil.AssertAppError(t, err, "INVALID_ARGUMENT")
	})
}

func TestDeleteCategory(t *testing.T) {
	t.Run("unused_child", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)

		root := testutil.CreateTestRootCategory(t, db, models.KindExpense)
		child := testutil.CreateTestChildCategory(t, db, root)

		testutil.AssertNoError(t, svc.DeleteCategory(child.ID))

		_, err := svc.GetCategoryByID(child.ID)
		testutil.AssertAppError(t, err, "CATEGORY_NOT_FOUND")
	})

	t.Run("root_with_children", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)

		root := testutil.CreateTestRootCategory(t, db, models.KindExpense)
		testutil.CreateTestChildCategory(t, db, root)

		err := svc.DeleteCategory(root.ID)
		testutil.AssertAppError(t, err, "CATEGORY_HAS_CHILDREN")
	})

	t.Run("root_referenced_by_rollup", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)

		root := testutil.CreateTestRootCategory(t, db, models.KindExpense)
		testutil.CreateTestTransactionFor(t, db, nil, root, models.KindExpense, 800, time.Now())

		err := svc.DeleteCategory(root.ID)
		testutil.AssertAppError(t, err, "CATEGORY_REFERENCED")
	})

	t.Run("child_referenced", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)

		root := testutil.CreateTestRootCategory(t, db, models.KindExpense)
		child := testutil.CreateTestChildCategory(t, db, root)
		testutil.CreateTestTransactionFor(t, db, nil, child, models.KindExpense, 800, time.Now())

		err := svc.DeleteCategory(child.ID)
		testutil.AssertAppError(t, err, "CATEGORY_REFERENCED")
	})

	t.Run("not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)

		err := svc.DeleteCategory("missing-id")
		testutil.AssertAppError(t, err, "CATEGORY_NOT_FOUND")
	})
}

func TestRenameCategory(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		root := testutil.CreateTestRootCategory(t, db, models.KindExpense)

		renamed, err := svc.RenameCategory(root.ID, " 日常饮食 ")
		testutil.AssertNoError(t, err)
		if renamed.Name != "日常饮食" {
			t.Errorf("expected name 日常饮食, got %q", renamed.Name)
		}
	})

	t.Run("not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)

		_, err := svc.RenameCategory("missing-id", "名字")
		testutil.AssertAppError(t, err, "CATEGORY_NOT_FOUND")
	})
}
