package migrate

import (
	"context"
	"strings"

	"github.com/taskhive/taskhive/pkg/db"
)

const (
	createTablesName    = "create tables"
	createTablesVersion = 1
)

var createTablesSqlite = `
CREATE TABLE IF NOT EXISTS organizations (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL UNIQUE,
	slug TEXT NOT NULL UNIQUE,
	contact_email TEXT NOT NULL,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS projects (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	organization_id INTEGER NOT NULL,
	name TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	status TEXT NOT NULL DEFAULT 'ACTIVE',
	due_date DATETIME,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	UNIQUE (organization_id, name),
	CONSTRAINT projects_organization_id_fk
		FOREIGN KEY (organization_id) REFERENCES organizations (id)
		ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS tasks (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	project_id INTEGER NOT NULL,
	title TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	status TEXT NOT NULL DEFAULT 'TODO',
	priority TEXT NOT NULL DEFAULT 'MEDIUM',
	assignee_email TEXT NOT NULL DEFAULT '',
	due_date DATETIME,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	CONSTRAINT tasks_project_id_fk
		FOREIGN KEY (project_id) REFERENCES projects (id)
		ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS task_comments (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	task_id INTEGER NOT NULL,
	content TEXT NOT NULL,
	author_email TEXT NOT NULL,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	CONSTRAINT task_comments_task_id_fk
		FOREIGN KEY (task_id) REFERENCES tasks (id)
		ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_organizations_name ON organizations (name);
CREATE INDEX IF NOT EXISTS idx_organizations_created_at ON organizations (created_at);
CREATE INDEX IF NOT EXISTS idx_projects_org_status ON projects (organization_id, status);
CREATE INDEX IF NOT EXISTS idx_projects_org_created_at ON projects (organization_id, created_at);
CREATE INDEX IF NOT EXISTS idx_projects_status ON projects (status);
CREATE INDEX IF NOT EXISTS idx_projects_due_date ON projects (due_date);
CREATE INDEX IF NOT EXISTS idx_tasks_project_status ON tasks (project_id, status);
CREATE INDEX IF NOT EXISTS idx_tasks_project_priority ON tasks (project_id, priority);
CREATE INDEX IF NOT EXISTS idx_tasks_project_created_at ON tasks (project_id, created_at);
CREATE INDEX IF NOT EXISTS idx_tasks_status_priority ON tasks (status, priority);
CREATE INDEX IF NOT EXISTS idx_tasks_assignee_email ON tasks (assignee_email);
CREATE INDEX IF NOT EXISTS idx_tasks_due_date ON tasks (due_date);
CREATE INDEX IF NOT EXISTS idx_task_comments_task_id ON task_comments (task_id);
`

var createTablesPostgres = `
CREATE TABLE IF NOT EXISTS organizations (
	id SERIAL PRIMARY KEY,
	name TEXT NOT NULL UNIQUE,
	slug TEXT NOT NULL UNIQUE,
	contact_email TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS projects (
	id SERIAL PRIMARY KEY,
	organization_id INTEGER NOT NULL,
	name TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	status TEXT NOT NULL DEFAULT 'ACTIVE',
	due_date TIMESTAMP,
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	UNIQUE (organization_id, name),
	CONSTRAINT projects_organization_id_fk
		FOREIGN KEY (organization_id) REFERENCES organizations (id)
		ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS tasks (
	id SERIAL PRIMARY KEY,
	project_id INTEGER NOT NULL,
	title TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	status TEXT NOT NULL DEFAULT 'TODO',
	priority TEXT NOT NULL DEFAULT 'MEDIUM',
	assignee_email TEXT NOT NULL DEFAULT '',
	due_date TIMESTAMP,
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	CONSTRAINT tasks_project_id_fk
		FOREIGN KEY (project_id) REFERENCES projects (id)
		ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS task_comments (
	id SERIAL PRIMARY KEY,
	task_id INTEGER NOT NULL,
	content TEXT NOT NULL,
	author_email TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	CONSTRAINT task_comments_task_id_fk
		FOREIGN KEY (task_id) REFERENCES tasks (id)
		ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_organizations_name ON organizations (name);
CREATE INDEX IF NOT EXISTS idx_organizations_created_at ON organizations (created_at);
CREATE INDEX IF NOT EXISTS idx_projects_org_status ON projects (organization_id, status);
CREATE INDEX IF NOT EXISTS idx_projects_org_created_at ON projects (organization_id, created_at);
CREATE INDEX IF NOT EXISTS idx_projects_status ON projects (status);
CREATE INDEX IF NOT EXISTS idx_projects_due_date ON projects (due_date);
CREATE INDEX IF NOT EXISTS idx_tasks_project_status ON tasks (project_id, status);
CREATE INDEX IF NOT EXISTS idx_tasks_project_priority ON tasks (project_id, priority);
CREATE INDEX IF NOT EXISTS idx_tasks_project_created_at ON tasks (project_id, created_at);
CREATE INDEX IF NOT EXISTS idx_tasks_status_priority ON tasks (status, priority);
CREATE INDEX IF NOT EXISTS idx_tasks_assignee_email ON tasks (assignee_email);
CREATE INDEX IF NOT EXISTS idx_tasks_due_date ON tasks (due_date);
CREATE INDEX IF NOT EXISTS idx_task_comments_task_id ON task_comments (task_id);
`

var dropTables = `
DROP TABLE IF EXISTS task_comments;
DROP TABLE IF EXISTS tasks;
DROP TABLE IF EXISTS projects;
DROP TABLE IF EXISTS organizations;
`

var createTables = Migration{
	Version: createTablesVersion,
	Name:    createTablesName,
	Migrate: func(ctx context.Context, tx *db.Tx) error {
		schema := createTablesPostgres
		if strings.HasPrefix(tx.DriverName(), "sqlite") {
			schema = createTablesSqlite
		}
		_, err := tx.ExecContext(ctx, schema)
		return err
	},
	Rollback: func(ctx context.Context, tx *db.Tx) error {
		_, err := tx.ExecContext(ctx, dropTables)
		return err
	},
}
