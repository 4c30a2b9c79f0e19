package backend

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/matryer/is"
	"github.com/taskhive/taskhive/pkg/config"
	"github.com/taskhive/taskhive/pkg/db"
	"github.com/taskhive/taskhive/pkg/db/migrate"
	"github.com/taskhive/taskhive/pkg/db/models"
	"github.com/taskhive/taskhive/pkg/proto"
	"github.com/taskhive/taskhive/pkg/store/database"
	"github.com/taskhive/taskhive/pkg/test"
)

func setupBackend(t *testing.T) (context.Context, *Backend, *db.DB) {
	t.Helper()
	is := is.New(t)

	cfg := config.DefaultConfig()
	cfg.DataPath = t.TempDir()
	ctx := config.WithContext(context.TODO(), cfg)

	dbx, err := test.OpenSqlite(ctx, t)
	is.NoErr(err)
	is.NoErr(migrate.Migrate(ctx, dbx))

	st := database.New(ctx, dbx)
	return ctx, New(ctx, cfg, dbx, st), dbx
}

func mustCreateOrg(t *testing.T, ctx context.Context, b *Backend, name string) proto.Organization {
	t.Helper()
	is := is.New(t)
	r := b.CreateOrganization(ctx, name, name+"@example.com")
	is.True(r.Success)
	is.True(r.Organization != nil)
	return *r.Organization
}

func mustCreateProject(t *testing.T, ctx context.Context, b *Backend, slug string, np proto.NewProject) proto.Project {
	t.Helper()
	is := is.New(t)
	r := b.CreateProject(ctx, slug, np)
	is.True(r.Success)
	is.True(r.Project != nil)
	return *r.Project
}

func mustCreateTask(t *testing.T, ctx context.Context, b *Backend, slug string, project int64, nt proto.NewTask) proto.Task {
	t.Helper()
	is := is.New(t)
	r := b.CreateTask(ctx, slug, project, nt)
	is.True(r.Success)
	is.True(r.Task != nil)
	return *r.Task
}

func TestCreateOrganization(t *testing.T) {
	ctx, b, _ := setupBackend(t)
	is := is.New(t)

	r := b.CreateOrganization(ctx, "  ACME Rockets  ", "Contact@ACME.example")
	is.True(r.Success)
	is.Equal(r.Message, "Organization created successfully")
	is.Equal(r.Organization.Name, "ACME Rockets")
	is.Equal(r.Organization.Slug, "acme-rockets")
	is.Equal(r.Organization.ContactEmail, "contact@acme.example")
	is.Equal(r.Organization.ProjectCount, int64(0))

	org, err := b.Organization(ctx, "acme-rockets")
	is.NoErr(err)
	is.Equal(org.ID, r.Organization.ID)
}

func TestCreateOrganizationValidation(t *testing.T) {
	ctx, b, _ := setupBackend(t)
	is := is.New(t)

	r := b.CreateOrganization(ctx, " a ", "a@example.com")
	is.True(!r.Success)
	is.Equal(r.Message, "Organization name must be at least 2 characters long")
	is.True(r.Organization == nil)

	r = b.CreateOrganization(ctx, "ACME", "not-an-email")
	is.True(!r.Success)
	is.Equal(r.Message, "Invalid email address")

	orgs, err := b.Organizations(ctx)
	is.NoErr(err)
	is.Equal(len(orgs), 0)
}

func TestCreateOrganizationDuplicateName(t *testing.T) {
	ctx, b, _ := setupBackend(t)
	is := is.New(t)

	first := mustCreateOrg(t, ctx, b, "acme")

	r := b.CreateOrganization(ctx, "acme", "other@example.com")
	is.True(!r.Success)
	is.Equal(r.Message, "Organization with this name already exists")

	org, err := b.Organization(ctx, first.Slug)
	is.NoErr(err)
	is.Equal(org.ContactEmail, "acme@example.com")
}

func TestOrganizationsOrderedByName(t *testing.T) {
	ctx, b, _ := setupBackend(t)
	is := is.New(t)

	mustCreateOrg(t, ctx, b, "zulu")
	mustCreateOrg(t, ctx, b, "alpha")
	mustCreateOrg(t, ctx, b, "mike")

	orgs, err := b.Organizations(ctx)
	is.NoErr(err)
	is.Equal(len(orgs), 3)
	is.Equal(orgs[0].Name, "alpha")
	is.Equal(orgs[1].Name, "mike")
	is.Equal(orgs[2].Name, "zulu")
}

func TestOrganizationNotFound(t *testing.T) {
	ctx, b, _ := setupBackend(t)
	is := is.New(t)

	_, err := b.Organization(ctx, "nope")
	is.True(errors.Is(err, proto.ErrOrgNotFound))
}

func TestTenantIsolation(t *testing.T) {
	ctx, b, _ := setupBackend(t)
	is := is.New(t)

	mustCreateOrg(t, ctx, b, "acme")
	mustCreateOrg(t, ctx, b, "globex")

	ap := mustCreateProject(t, ctx, b, "acme", proto.NewProject{Name: "Rocket"})
	gp := mustCreateProject(t, ctx, b, "globex", proto.NewProject{Name: "Moonbase"})

	// Each tenant only sees its own projects.
	projects, err := b.Projects(ctx, "acme", proto.ProjectListOptions{})
	is.NoErr(err)
	is.Equal(len(projects), 1)
	is.Equal(projects[0].Name, "Rocket")

	// A project id under the wrong tenant is not found.
	_, err = b.Project(ctx, "acme", gp.ID)
	is.True(errors.Is(err, proto.ErrProjectNotFound))

	// Tasks through the wrong tenant resolve to an empty list.
	at := mustCreateTask(t, ctx, b, "acme", ap.ID, proto.NewTask{Title: "Ignition"})
	tasks, err := b.Tasks(ctx, "globex", ap.ID, proto.TaskListOptions{})
	is.NoErr(err)
	is.Equal(len(tasks), 0)

	_, err = b.Task(ctx, "globex", at.ID)
	is.True(errors.Is(err, proto.ErrTaskNotFound))

	// An unknown slug behaves like a tenant with no data.
	projects, err = b.Projects(ctx, "nope", proto.ProjectListOptions{})
	is.NoErr(err)
	is.Equal(len(projects), 0)
}

func TestProjectFilterSearchOrder(t *testing.T) {
	ctx, b, _ := setupBackend(t)
	is := is.New(t)

	mustCreateOrg(t, ctx, b, "acme")
	mustCreateProject(t, ctx, b, "acme", proto.NewProject{Name: "Alpha Site", Status: models.ProjectActive})
	mustCreateProject(t, ctx, b, "acme", proto.NewProject{Name: "Beta", Description: "successor of alpha", Status: models.ProjectCompleted})
	mustCreateProject(t, ctx, b, "acme", proto.NewProject{Name: "Gamma", Status: models.ProjectOnHold})

	// Search matches name and description, case-insensitively.
	projects, err := b.Projects(ctx, "acme", proto.ProjectListOptions{Search: "ALPHA"})
	is.NoErr(err)
	is.Equal(len(projects), 2)

	// Filter by status.
	projects, err = b.Projects(ctx, "acme", proto.ProjectListOptions{Status: models.ProjectCompleted})
	is.NoErr(err)
	is.Equal(len(projects), 1)
	is.Equal(projects[0].Name, "Beta")

	// Explicit ordering, ascending and descending.
	projects, err = b.Projects(ctx, "acme", proto.ProjectListOptions{OrderBy: "name"})
	is.NoErr(err)
	is.Equal(projects[0].Name, "Alpha Site")
	is.Equal(projects[2].Name, "Gamma")

	projects, err = b.Projects(ctx, "acme", proto.ProjectListOptions{OrderBy: "-name"})
	is.NoErr(err)
	is.Equal(projects[0].Name, "Gamma")

	// Pagination composes after filter and order.
	projects, err = b.Projects(ctx, "acme", proto.ProjectListOptions{OrderBy: "name", Limit: 1, Offset: 1})
	is.NoErr(err)
	is.Equal(len(projects), 1)
	is.Equal(projects[0].Name, "Beta")

	// An unknown order field is rejected.
	_, err = b.Projects(ctx, "acme", proto.ProjectListOptions{OrderBy: "slug; DROP TABLE projects"})
	is.True(err != nil)
}

func TestProjectDuplicateNamePerOrg(t *testing.T) {
	ctx, b, _ := setupBackend(t)
	is := is.New(t)

	mustCreateOrg(t, ctx, b, "acme")
	mustCreateOrg(t, ctx, b, "globex")
	mustCreateProject(t, ctx, b, "acme", proto.NewProject{Name: "Rocket"})

	r := b.CreateProject(ctx, "acme", proto.NewProject{Name: "Rocket"})
	is.True(!r.Success)
	is.Equal(r.Message, "Project with this name already exists in the organization")

	// The same name is fine under another organization.
	r = b.CreateProject(ctx, "globex", proto.NewProject{Name: "Rocket"})
	is.True(r.Success)
}

func TestCreateProjectValidation(t *testing.T) {
	ctx, b, _ := setupBackend(t)
	is := is.New(t)

	mustCreateOrg(t, ctx, b, "acme")

	r := b.CreateProject(ctx, "acme", proto.NewProject{Name: "  "})
	is.True(!r.Success)
	is.Equal(r.Message, "Project name cannot be empty")

	r = b.CreateProject(ctx, "acme", proto.NewProject{Name: "Rocket", Status: "LAUNCHED"})
	is.True(!r.Success)
	is.Equal(r.Message, `invalid project status "LAUNCHED"`)

	r = b.CreateProject(ctx, "nope", proto.NewProject{Name: "Rocket"})
	is.True(!r.Success)
	is.Equal(r.Message, "Organization not found")

	// Status defaults to ACTIVE.
	r = b.CreateProject(ctx, "acme", proto.NewProject{Name: "Rocket"})
	is.True(r.Success)
	is.Equal(r.Project.Status, models.ProjectActive)
}

func TestUpdateProjectPartial(t *testing.T) {
	ctx, b, _ := setupBackend(t)
	is := is.New(t)

	mustCreateOrg(t, ctx, b, "acme")
	due := time.Now().UTC().Add(24 * time.Hour).Truncate(time.Second)
	p := mustCreateProject(t, ctx, b, "acme", proto.NewProject{
		Name:        "Rocket",
		Description: "to the moon",
		DueDate:     &due,
	})

	status := models.ProjectCompleted
	r := b.UpdateProject(ctx, "acme", p.ID, proto.ProjectPatch{Status: &status})
	is.True(r.Success)
	is.Equal(r.Message, "Project updated successfully")
	is.Equal(r.Project.Status, models.ProjectCompleted)

	// Untouched fields keep their values.
	is.Equal(r.Project.Name, "Rocket")
	is.Equal(r.Project.Description, "to the moon")
	is.True(r.Project.DueDate != nil)

	r = b.UpdateProject(ctx, "acme", p.ID+100, proto.ProjectPatch{Status: &status})
	is.True(!r.Success)
	is.Equal(r.Message, "Project or Organization not found")
}

func TestProjectCompletionRate(t *testing.T) {
	ctx, b, _ := setupBackend(t)
	is := is.New(t)

	mustCreateOrg(t, ctx, b, "acme")
	p := mustCreateProject(t, ctx, b, "acme", proto.NewProject{Name: "Rocket"})

	// No tasks means a zero rate.
	got, err := b.Project(ctx, "acme", p.ID)
	is.NoErr(err)
	is.Equal(got.CompletionRate, float64(0))

	for _, status := range []models.TaskStatus{models.TaskDone, models.TaskDone, models.TaskTodo, models.TaskBlocked} {
		mustCreateTask(t, ctx, b, "acme", p.ID, proto.NewTask{
			Title:  "task",
			Status: status,
		})
	}

	got, err = b.Project(ctx, "acme", p.ID)
	is.NoErr(err)
	is.Equal(got.TaskCount, int64(4))
	is.Equal(got.CompletedTasksCount, int64(2))
	is.Equal(got.CompletionRate, float64(50))

	// 2 of 3 rounds to two decimal places.
	q := mustCreateProject(t, ctx, b, "acme", proto.NewProject{Name: "Probe"})
	for _, status := range []models.TaskStatus{models.TaskDone, models.TaskDone, models.TaskInProgress} {
		mustCreateTask(t, ctx, b, "acme", q.ID, proto.NewTask{Title: "task", Status: status})
	}

	got, err = b.Project(ctx, "acme", q.ID)
	is.NoErr(err)
	is.Equal(got.CompletionRate, 66.67)
}

func TestOrganizationStats(t *testing.T) {
	ctx, b, _ := setupBackend(t)
	is := is.New(t)

	mustCreateOrg(t, ctx, b, "acme")
	p1 := mustCreateProject(t, ctx, b, "acme", proto.NewProject{Name: "Rocket"})
	p2 := mustCreateProject(t, ctx, b, "acme", proto.NewProject{Name: "Probe"})

	mustCreateTask(t, ctx, b, "acme", p1.ID, proto.NewTask{Title: "a", Status: models.TaskDone})
	mustCreateTask(t, ctx, b, "acme", p1.ID, proto.NewTask{Title: "b"})
	mustCreateTask(t, ctx, b, "acme", p2.ID, proto.NewTask{Title: "c", Status: models.TaskDone})

	org, err := b.Organization(ctx, "acme")
	is.NoErr(err)
	is.Equal(org.ProjectCount, int64(2))
	is.Equal(org.TotalTasks, int64(3))
	is.Equal(org.CompletedTasks, int64(2))
}

func TestTaskFilters(t *testing.T) {
	ctx, b, _ := setupBackend(t)
	is := is.New(t)

	mustCreateOrg(t, ctx, b, "acme")
	p := mustCreateProject(t, ctx, b, "acme", proto.NewProject{Name: "Rocket"})

	mustCreateTask(t, ctx, b, "acme", p.ID, proto.NewTask{Title: "Design fins", Priority: models.PriorityHigh, AssigneeEmail: "ada@example.com"})
	mustCreateTask(t, ctx, b, "acme", p.ID, proto.NewTask{Title: "Order fuel", Status: models.TaskDone, AssigneeEmail: "grace@example.com"})
	mustCreateTask(t, ctx, b, "acme", p.ID, proto.NewTask{Title: "Paint hull", Description: "use the red fins stencil"})

	tasks, err := b.Tasks(ctx, "acme", p.ID, proto.TaskListOptions{Status: models.TaskDone})
	is.NoErr(err)
	is.Equal(len(tasks), 1)
	is.Equal(tasks[0].Title, "Order fuel")

	tasks, err = b.Tasks(ctx, "acme", p.ID, proto.TaskListOptions{Priority: models.PriorityHigh})
	is.NoErr(err)
	is.Equal(len(tasks), 1)

	tasks, err = b.Tasks(ctx, "acme", p.ID, proto.TaskListOptions{AssigneeEmail: "ada@"})
	is.NoErr(err)
	is.Equal(len(tasks), 1)
	is.Equal(tasks[0].Title, "Design fins")

	// Search covers title, description, and assignee email.
	tasks, err = b.Tasks(ctx, "acme", p.ID, proto.TaskListOptions{Search: "FINS"})
	is.NoErr(err)
	is.Equal(len(tasks), 2)

	// Default ordering is newest first.
	tasks, err = b.Tasks(ctx, "acme", p.ID, proto.TaskListOptions{})
	is.NoErr(err)
	is.Equal(len(tasks), 3)
	is.Equal(tasks[0].Title, "Paint hull")
}

func TestCreateTaskValidation(t *testing.T) {
	ctx, b, _ := setupBackend(t)
	is := is.New(t)

	mustCreateOrg(t, ctx, b, "acme")
	p := mustCreateProject(t, ctx, b, "acme", proto.NewProject{Name: "Rocket"})

	r := b.CreateTask(ctx, "acme", p.ID, proto.NewTask{Title: " "})
	is.True(!r.Success)
	is.Equal(r.Message, "Task title cannot be empty")

	r = b.CreateTask(ctx, "acme", p.ID, proto.NewTask{Title: "a", Priority: "SOMEDAY"})
	is.True(!r.Success)
	is.Equal(r.Message, `invalid task priority "SOMEDAY"`)

	r = b.CreateTask(ctx, "acme", p.ID, proto.NewTask{Title: "a", AssigneeEmail: "nope"})
	is.True(!r.Success)
	is.Equal(r.Message, "Invalid assignee email address")

	r = b.CreateTask(ctx, "acme", p.ID+100, proto.NewTask{Title: "a"})
	is.True(!r.Success)
	is.Equal(r.Message, "Project or Organization not found")

	// Defaults apply when status and priority are omitted.
	r = b.CreateTask(ctx, "acme", p.ID, proto.NewTask{Title: "a"})
	is.True(r.Success)
	is.Equal(r.Task.Status, models.TaskTodo)
	is.Equal(r.Task.Priority, models.PriorityMedium)
}

func TestUpdateTaskPartial(t *testing.T) {
	ctx, b, _ := setupBackend(t)
	is := is.New(t)

	mustCreateOrg(t, ctx, b, "acme")
	p := mustCreateProject(t, ctx, b, "acme", proto.NewProject{Name: "Rocket"})
	task := mustCreateTask(t, ctx, b, "acme", p.ID, proto.NewTask{
		Title:         "Design fins",
		Description:   "swept back",
		Priority:      models.PriorityHigh,
		AssigneeEmail: "ada@example.com",
	})

	status := models.TaskDone
	r := b.UpdateTask(ctx, "acme", task.ID, proto.TaskPatch{Status: &status})
	is.True(r.Success)
	is.Equal(r.Task.Status, models.TaskDone)
	is.Equal(r.Task.Title, "Design fins")
	is.Equal(r.Task.Description, "swept back")
	is.Equal(r.Task.Priority, models.PriorityHigh)
	is.Equal(r.Task.AssigneeEmail, "ada@example.com")

	// An empty assignee email clears the assignment.
	empty := ""
	r = b.UpdateTask(ctx, "acme", task.ID, proto.TaskPatch{AssigneeEmail: &empty})
	is.True(r.Success)
	is.Equal(r.Task.AssigneeEmail, "")

	r = b.UpdateTask(ctx, "acme", task.ID+100, proto.TaskPatch{Status: &status})
	is.True(!r.Success)
	is.Equal(r.Message, "Task or Organization not found")
}

func TestTaskComments(t *testing.T) {
	ctx, b, _ := setupBackend(t)
	is := is.New(t)

	mustCreateOrg(t, ctx, b, "acme")
	p := mustCreateProject(t, ctx, b, "acme", proto.NewProject{Name: "Rocket"})
	task := mustCreateTask(t, ctx, b, "acme", p.ID, proto.NewTask{Title: "Design fins"})

	r := b.CreateTaskComment(ctx, "acme", task.ID, " ", "ada@example.com")
	is.True(!r.Success)
	is.Equal(r.Message, "Comment content cannot be empty")

	r = b.CreateTaskComment(ctx, "acme", task.ID, "looks good", "nope")
	is.True(!r.Success)
	is.Equal(r.Message, "Invalid author email address")

	r = b.CreateTaskComment(ctx, "acme", task.ID, "looks good", "Ada@Example.com")
	is.True(r.Success)
	is.Equal(r.Message, "Comment added successfully")
	is.Equal(r.Comment.AuthorEmail, "ada@example.com")

	r = b.CreateTaskComment(ctx, "acme", task.ID, "second pass", "grace@example.com")
	is.True(r.Success)

	comments, err := b.TaskComments(ctx, "acme", task.ID)
	is.NoErr(err)
	is.Equal(len(comments), 2)

	got, err := b.Task(ctx, "acme", task.ID)
	is.NoErr(err)
	is.Equal(got.CommentCount, int64(2))

	// Comments are invisible through another tenant.
	mustCreateOrg(t, ctx, b, "globex")
	comments, err = b.TaskComments(ctx, "globex", task.ID)
	is.NoErr(err)
	is.Equal(len(comments), 0)

	r = b.CreateTaskComment(ctx, "globex", task.ID, "sneaky", "intruder@example.com")
	is.True(!r.Success)
	is.Equal(r.Message, "Task or Organization not found")
}

func TestDeleteOrganizationCascades(t *testing.T) {
	ctx, b, dbx := setupBackend(t)
	is := is.New(t)

	mustCreateOrg(t, ctx, b, "acme")
	p := mustCreateProject(t, ctx, b, "acme", proto.NewProject{Name: "Rocket"})
	task := mustCreateTask(t, ctx, b, "acme", p.ID, proto.NewTask{Title: "Design fins"})
	r := b.CreateTaskComment(ctx, "acme", task.ID, "looks good", "ada@example.com")
	is.True(r.Success)

	dr := b.DeleteOrganization(ctx, "acme")
	is.True(dr.Success)
	is.Equal(dr.Message, "Organization deleted successfully")

	_, err := b.Organization(ctx, "acme")
	is.True(errors.Is(err, proto.ErrOrgNotFound))

	// The delete cascades all the way down to comments.
	for _, table := range []string{"projects", "tasks", "task_comments"} {
		var n int64
		is.NoErr(dbx.GetContext(ctx, &n, "SELECT COUNT(*) FROM "+table))
		is.Equal(n, int64(0))
	}

	dr = b.DeleteOrganization(ctx, "acme")
	is.True(!dr.Success)
	is.Equal(dr.Message, "Organization not found")
}

func TestDeleteProjectAndTask(t *testing.T) {
	ctx, b, _ := setupBackend(t)
	is := is.New(t)

	mustCreateOrg(t, ctx, b, "acme")
	mustCreateOrg(t, ctx, b, "globex")
	p := mustCreateProject(t, ctx, b, "acme", proto.NewProject{Name: "Rocket"})
	task := mustCreateTask(t, ctx, b, "acme", p.ID, proto.NewTask{Title: "Design fins"})

	// The wrong tenant cannot delete.
	r := b.DeleteTask(ctx, "globex", task.ID)
	is.True(!r.Success)
	is.Equal(r.Message, "Task or Organization not found")

	r = b.DeleteTask(ctx, "acme", task.ID)
	is.True(r.Success)

	pr := b.DeleteProject(ctx, "globex", p.ID)
	is.True(!pr.Success)
	is.Equal(pr.Message, "Project or Organization not found")

	pr = b.DeleteProject(ctx, "acme", p.ID)
	is.True(pr.Success)

	projects, err := b.Projects(ctx, "acme", proto.ProjectListOptions{})
	is.NoErr(err)
	is.Equal(len(projects), 0)
}
