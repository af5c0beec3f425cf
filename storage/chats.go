// Package storage persists chats, messages and projects in a local SQLite
// database under the data directory.
package storage

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"time"

	"omnichat/model"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

type Chat struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Provider  string    `json:"provider"`
	Model     string    `json:"model"`
	ProjectID string    `json:"project_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ChatMessage struct {
	ID        string    `json:"id"`
	ChatID    string    `json:"chat_id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Provider  string    `json:"provider,omitempty"`
	Model     string    `json:"model,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type Project struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ChatStorage struct {
	db *sql.DB
}

func NewChatStorage(dataDir string) (*ChatStorage, error) {
	dbPath := filepath.Join(dataDir, "omnichat.db")

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := db.Exec(`PRAGMA foreign_keys = ON`); err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	storage := &ChatStorage{db: db}

	if err := storage.initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return storage, nil
}

func (s *ChatStorage) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS projects (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	);
	CREATE TABLE IF NOT EXISTS chats (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		provider TEXT NOT NULL,
		model TEXT NOT NULL,
		project_id TEXT REFERENCES projects(id) ON DELETE SET NULL,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	);
	CREATE TABLE IF NOT EXISTS messages (
		id TEXT PRIMARY KEY,
		chat_id TEXT NOT NULL REFERENCES chats(id) ON DELETE CASCADE,
		role TEXT NOT NULL,
		content TEXT NOT NULL,
		provider TEXT,
		model TEXT,
		created_at DATETIME NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_chats_updated ON chats(updated_at);
	CREATE INDEX IF NOT EXISTS idx_messages_chat ON messages(chat_id, created_at);
	`

	_, err := s.db.Exec(schema)
	return err
}

// CreateChat inserts a new chat and returns it.
func (s *ChatStorage) CreateChat(title, providerID, modelName, projectID string) (*Chat, error) {
	now := time.Now().UTC()
	chat := &Chat{
		ID:        uuid.NewString(),
		Title:     title,
		Provider:  providerID,
		Model:     modelName,
		ProjectID: projectID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	query := `
	INSERT INTO chats (id, title, provider, model, project_id, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.Exec(query,
		chat.ID, chat.Title, chat.Provider, chat.Model,
		nullable(chat.ProjectID), chat.CreatedAt, chat.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat: %w", err)
	}

	return chat, nil
}

// GetChat loads a single chat. Returns nil without error when the chat
// does not exist.
func (s *ChatStorage) GetChat(id string) (*Chat, error) {
	query := `
	SELECT id, title, provider, model, COALESCE(project_id, ''), created_at, updated_at
	FROM chats
	WHERE id = ?
	`

	var chat Chat
	err := s.db.QueryRow(query, id).Scan(
		&chat.ID, &chat.Title, &chat.Provider, &chat.Model,
		&chat.ProjectID, &chat.CreatedAt, &chat.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &chat, nil
}

// ListChats returns all chats, most recently updated first. An empty
// projectID lists everything.
func (s *ChatStorage) ListChats(projectID string) ([]Chat, error) {
	query := `
	SELECT id, title, provider, model, COALESCE(project_id, ''), created_at, updated_at
	FROM chats
	`
	args := []any{}
	if projectID != "" {
		query += ` WHERE project_id = ?`
		args = append(args, projectID)
	}
	query += ` ORDER BY updated_at DESC`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var chats []Chat
	for rows.Next() {
		var chat Chat
		err := rows.Scan(
			&chat.ID, &chat.Title, &chat.Provider, &chat.Model,
			&chat.ProjectID, &chat.CreatedAt, &chat.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		chats = append(chats, chat)
	}

	return chats, rows.Err()
}

// UpdateChat applies non-empty title/provider/model changes and bumps
// updated_at.
func (s *ChatStorage) UpdateChat(id, title, providerID, modelName string) error {
	chat, err := s.GetChat(id)
	if err != nil {
		return err
	}
	if chat == nil {
		return fmt.Errorf("chat %s not found", id)
	}

	if title != "" {
		chat.Title = title
	}
	if providerID != "" {
		chat.Provider = providerID
	}
	if modelName != "" {
		chat.Model = modelName
	}

	query := `
	UPDATE chats SET title = ?, provider = ?, model = ?, updated_at = ?
	WHERE id = ?
	`
	_, err = s.db.Exec(query, chat.Title, chat.Provider, chat.Model, time.Now().UTC(), id)
	return err
}

// SetChatProject moves a chat into a project; empty projectID detaches it.
func (s *ChatStorage) SetChatProject(id, projectID string) error {
	query := `UPDATE chats SET project_id = ?, updated_at = ? WHERE id = ?`
	res, err := s.db.Exec(query, nullable(projectID), time.Now().UTC(), id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("chat %s not found", id)
	}
	return nil
}

// DeleteChat removes a chat; messages cascade.
func (s *ChatStorage) DeleteChat(id string) error {
	_, err := s.db.Exec(`DELETE FROM chats WHERE id = ?`, id)
	return err
}

// AppendMessage stores one message and bumps the chat's updated_at.
func (s *ChatStorage) AppendMessage(chatID, role, content, providerID, modelName string) (*ChatMessage, error) {
	now := time.Now().UTC()
	msg := &ChatMessage{
		ID:        uuid.NewString(),
		ChatID:    chatID,
		Role:      role,
		Content:   content,
		Provider:  providerID,
		Model:     modelName,
		CreatedAt: now,
	}

	query := `
	INSERT INTO messages (id, chat_id, role, content, provider, model, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.Exec(query,
		msg.ID, msg.ChatID, msg.Role, msg.Content,
		nullable(msg.Provider), nullable(msg.Model), msg.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to append message: %w", err)
	}

	if _, err := s.db.Exec(`UPDATE chats SET updated_at = ? WHERE id = ?`, now, chatID); err != nil {
		return nil, err
	}

	return msg, nil
}

// Messages returns a chat's messages in order.
func (s *ChatStorage) Messages(chatID string) ([]ChatMessage, error) {
	query := `
	SELECT id, chat_id, role, content, COALESCE(provider, ''), COALESCE(model, ''), created_at
	FROM messages
	WHERE chat_id = ?
	ORDER BY created_at ASC, id ASC
	`

	rows, err := s.db.Query(query, chatID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []ChatMessage
	for rows.Next() {
		var msg ChatMessage
		err := rows.Scan(
			&msg.ID, &msg.ChatID, &msg.Role, &msg.Content,
			&msg.Provider, &msg.Model, &msg.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}

	return messages, rows.Err()
}

// History returns a chat's messages in the provider-agnostic shape the
// generation core consumes.
func (s *ChatStorage) History(chatID string) ([]model.Message, error) {
	messages, err := s.Messages(chatID)
	if err != nil {
		return nil, err
	}

	history := make([]model.Message, len(messages))
	for i, msg := range messages {
		history[i] = model.Message{Role: msg.Role, Content: msg.Content}
	}
	return history, nil
}

// CreateProject inserts a new project.
func (s *ChatStorage) CreateProject(name string) (*Project, error) {
	now := time.Now().UTC()
	project := &Project{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}

	query := `INSERT INTO projects (id, name, created_at, updated_at) VALUES (?, ?, ?, ?)`
	if _, err := s.db.Exec(query, project.ID, project.Name, project.CreatedAt, project.UpdatedAt); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	return project, nil
}

// ListProjects returns all projects, newest first.
func (s *ChatStorage) ListProjects() ([]Project, error) {
	rows, err := s.db.Query(`SELECT id, name, created_at, updated_at FROM projects ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []Project
	for rows.Next() {
		var p Project
		if err := rows.Scan(&p.ID, &p.Name, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}

	return projects, rows.Err()
}

// RenameProject updates a project's name.
func (s *ChatStorage) RenameProject(id, name string) error {
	res, err := s.db.Exec(`UPDATE projects SET name = ?, updated_at = ? WHERE id = ?`, name, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("project %s not found", id)
	}
	return nil
}

// DeleteProject removes a project; its chats survive with project_id
// cleared by the foreign key.
func (s *ChatStorage) DeleteProject(id string) error {
	_, err := s.db.Exec(`DELETE FROM projects WHERE id = ?`, id)
	return err
}

func (s *ChatStorage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// nullable maps "" to NULL for optional foreign keys and attributions.
func nullable(v string) any {
	if v == "" {
		return nil
	}
	return v
}
