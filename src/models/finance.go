package models

import (
	"database/sql"
	"strings"
	"time"
)

// Transaction direction is carried by Type, never by the sign of Amount.
const (
	TransactionTypeIncome  = "income"
	TransactionTypeExpense = "expense"
)

type Transaction struct {
	ID          int64     `json:"id,omitempty"`
	UserID      int64     `json:"user_id,omitempty"`
	Amount      float64   `json:"amount"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	Date        time.Time `json:"transaction_date"`
	Type        string    `json:"transaction_type"`
	CreatedAt   time.Time `json:"created_at,omitempty"`
}

type Budget struct {
	ID             int64     `json:"id,omitempty"`
	UserID         int64     `json:"user_id,omitempty"`
	Category       string    `json:"category"`
	MonthlyLimit   float64   `json:"monthly_limit"`
	AlertThreshold float64   `json:"alert_threshold"`
	IsActive       bool      `json:"is_active"`
	CreatedAt      time.Time `json:"created_at,omitempty"`
	UpdatedAt      time.Time `json:"updated_at,omitempty"`
}

type SavingsGoal struct {
	ID            int64      `json:"id,omitempty"`
	UserID        int64      `json:"user_id,omitempty"`
	GoalName      string     `json:"goal_name"`
	TargetAmount  float64    `json:"target_amount"`
	CurrentAmount float64    `json:"current_amount"`
	TargetDate    *time.Time `json:"target_date,omitempty"`
	Category      string     `json:"category,omitempty"`
	IsAchieved    bool       `json:"is_achieved"`
	CreatedAt     time.Time  `json:"created_at,omitempty"`
}

type Investment struct {
	ID           int64      `json:"id,omitempty"`
	UserID       int64      `json:"user_id,omitempty"`
	Type         string     `json:"investment_type"`
	Symbol       string     `json:"symbol,omitempty"`
	Amount       float64    `json:"amount"`
	CurrentValue float64    `json:"current_value"`
	PurchaseDate *time.Time `json:"purchase_date,omitempty"`
	CreatedAt    time.Time  `json:"created_at,omitempty"`
}

// TransactionFilter narrows ListTransactions. Zero values mean "no filter".
type TransactionFilter struct {
	StartDate time.Time
	EndDate   time.Time
	Type      string
	Category  string
}

func (t *Transaction) Insert(db *sql.DB) error {
	t.CreatedAt = time.Now()
	res, err := db.Exec(`
		INSERT INTO transactions (user_id, amount, category, description, transaction_date, transaction_type, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		t.UserID, t.Amount, t.Category, t.Description, t.Date.Format("2006-01-02"), t.Type, t.CreatedAt,
	)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	t.ID = id
	return nil
}

// ListTransactions returns a user's transactions newest first, with the row id
// as tiebreak so same-day inserts keep creation order.
func ListTransactions(db *sql.DB, userID int64, filter TransactionFilter) ([]Transaction, error) {
	query := strings.Builder{}
	query.WriteString(`
		SELECT id, user_id, amount, category, description, transaction_date, transaction_type, created_at
		FROM transactions
		WHERE user_id = ?`)
	args := []any{userID}

	if !filter.StartDate.IsZero() {
		query.WriteString(" AND transaction_date >= ?")
		args = append(args, filter.StartDate.Format("2006-01-02"))
	}
	if !filter.EndDate.IsZero() {
		query.WriteString(" AND transaction_date <= ?")
		args = append(args, filter.EndDate.Format("2006-01-02"))
	}
	if filter.Type != "" {
		query.WriteString(" AND transaction_type = ?")
		args = append(args, filter.Type)
	}
	if filter.Category != "" {
		query.WriteString(" AND category = ?")
		args = append(args, filter.Category)
	}
	query.WriteString(" ORDER BY transaction_date DESC, id DESC")

	rows, err := db.Query(query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var transactions []Transaction
	for rows.Next() {
		var tx Transaction
		var dateStr string
		if err := rows.Scan(&tx.ID, &tx.UserID, &tx.Amount, &tx.Category, &tx.Description, &dateStr, &tx.Type, &tx.CreatedAt); err != nil {
			return nil, err
		}
		if tx.Date, err = time.Parse("2006-01-02", dateStr); err != nil {
			return nil, err
		}
		transactions = append(transactions, tx)
	}
	return transactions, rows.Err()
}

// ListTrainingSamples returns every (description, category) pair with a
// non-empty description, oldest first. The categorization model is shared
// across users, so the corpus spans the whole table.
func ListTrainingSamples(db *sql.DB) ([]Transaction, error) {
	rows, err := db.Query(`
		SELECT description, category
		FROM transactions
		WHERE TRIM(description) != ''
		ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var samples []Transaction
	for rows.Next() {
		var tx Transaction
		if err := rows.Scan(&tx.Description, &tx.Category); err != nil {
			return nil, err
		}
		samples = append(samples, tx)
	}
	return samples, rows.Err()
}

func DeleteTransaction(db *sql.DB, userID, transactionID int64) (bool, error) {
	res, err := db.Exec(`DELETE FROM transactions WHERE id = ? AND user_id = ?`, transactionID, userID)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	return affected > 0, err
}

// UpsertBudget creates or replaces the budget for (user, category). At most
// one budget may exist per category per user.
func (b *Budget) Upsert(db *sql.DB) error {
	now := time.Now()
	b.UpdatedAt = now
	res, err := db.Exec(`
		INSERT INTO budgets (user_id, category, monthly_limit, alert_threshold, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id, category) DO UPDATE SET
			monthly_limit = excluded.monthly_limit,
			alert_threshold = excluded.alert_threshold,
			is_active = excluded.is_active,
			updated_at = excluded.updated_at`,
		b.UserID, b.Category, b.MonthlyLimit, b.AlertThreshold, b.IsActive, now, now,
	)
	if err != nil {
		return err
	}
	if id, err := res.LastInsertId(); err == nil && id > 0 {
		b.ID = id
	}
	return nil
}

func ListActiveBudgets(db *sql.DB, userID int64) ([]Budget, error) {
	rows, err := db.Query(`
		SELECT id, user_id, category, monthly_limit, alert_threshold, is_active, created_at, updated_at
		FROM budgets
		WHERE user_id = ? AND is_active = TRUE
		ORDER BY id ASC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var budgets []Budget
	for rows.Next() {
		var b Budget
		if err := rows.Scan(&b.ID, &b.UserID, &b.Category, &b.MonthlyLimit, &b.AlertThreshold, &b.IsActive, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, err
		}
		budgets = append(budgets, b)
	}
	return budgets, rows.Err()
}

func DeleteBudget(db *sql.DB, userID, budgetID int64) (bool, error) {
	res, err := db.Exec(`DELETE FROM budgets WHERE id = ? AND user_id = ?`, budgetID, userID)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	return affected > 0, err
}

func (g *SavingsGoal) Insert(db *sql.DB) error {
	g.CreatedAt = time.Now()
	var targetDate any
	if g.TargetDate != nil {
		targetDate = g.TargetDate.Format("2006-01-02")
	}
	res, err := db.Exec(`
		INSERT INTO savings_goals (user_id, goal_name, target_amount, current_amount, target_date, category, is_achieved, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		g.UserID, g.GoalName, g.TargetAmount, g.CurrentAmount, targetDate, g.Category, g.IsAchieved, g.CreatedAt, g.CreatedAt,
	)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	g.ID = id
	return nil
}

func ListSavingsGoals(db *sql.DB, userID int64) ([]SavingsGoal, error) {
	rows, err := db.Query(`
		SELECT id, user_id, goal_name, target_amount, current_amount, target_date, category, is_achieved, created_at
		FROM savings_goals
		WHERE user_id = ?
		ORDER BY id ASC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var goals []SavingsGoal
	for rows.Next() {
		var g SavingsGoal
		var targetDate sql.NullString
		if err := rows.Scan(&g.ID, &g.UserID, &g.GoalName, &g.TargetAmount, &g.CurrentAmount, &targetDate, &g.Category, &g.IsAchieved, &g.CreatedAt); err != nil {
			return nil, err
		}
		if targetDate.Valid && targetDate.String != "" {
			if t, err := time.Parse("2006-01-02", targetDate.String); err == nil {
				g.TargetDate = &t
			}
		}
		goals = append(goals, g)
	}
	return goals, rows.Err()
}

// UpdateSavingsGoalAmount sets the current amount and flips is_achieved once
// the target is reached.
func UpdateSavingsGoalAmount(db *sql.DB, userID, goalID int64, currentAmount float64) (bool, error) {
	res, err := db.Exec(`
		UPDATE savings_goals
		SET current_amount = ?,
		    is_achieved = (? >= target_amount),
		    updated_at = ?
		WHERE id = ? AND user_id = ?`,
		currentAmount, currentAmount, time.Now(), goalID, userID,
	)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	return affected > 0, err
}

func DeleteSavingsGoal(db *sql.DB, userID, goalID int64) (bool, error) {
	res, err := db.Exec(`DELETE FROM savings_goals WHERE id = ? AND user_id = ?`, goalID, userID)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	return affected > 0, err
}

func (inv *Investment) Insert(db *sql.DB) error {
	inv.CreatedAt = time.Now()
	var purchaseDate any
	if inv.PurchaseDate != nil {
		purchaseDate = inv.PurchaseDate.Format("2006-01-02")
	}
	res, err := db.Exec(`
		INSERT INTO investments (user_id, investment_type, symbol, amount, current_value, purchase_date, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		inv.UserID, inv.Type, inv.Symbol, inv.Amount, inv.CurrentValue, purchaseDate, inv.CreatedAt,
	)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	inv.ID = id
	return nil
}

func ListInvestments(db *sql.DB, userID int64) ([]Investment, error) {
	rows, err := db.Query(`
		SELECT id, user_id, investment_type, symbol, amount, current_value, purchase_date, created_at
		FROM investments
		WHERE user_id = ?
		ORDER BY id ASC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var investments []Investment
	for rows.Next() {
		var inv Investment
		var purchaseDate sql.NullString
		if err := rows.Scan(&inv.ID, &inv.UserID, &inv.Type, &inv.Symbol, &inv.Amount, &inv.CurrentValue, &purchaseDate, &inv.CreatedAt); err != nil {
			return nil, err
		}
		if purchaseDate.Valid && purchaseDate.String != "" {
			if t, err := time.Parse("2006-01-02", purchaseDate.String); err == nil {
				inv.PurchaseDate = &t
			}
		}
		investments = append(investments, inv)
	}
	return investments, rows.Err()
}

func DeleteInvestment(db *sql.DB, userID, investmentID int64) (bool, error) {
	res, err := db.Exec(`DELETE FROM investments WHERE id = ? AND user_id = ?`, investmentID, userID)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	return affected > 0, err
}
