package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/hugohenrick/tarefas-ia/internal/domain/project"
	"github.com/hugohenrick/tarefas-ia/internal/domain/task"
)

// ProjectRepository implementa project.Repository em memória
type ProjectRepository struct {
	s *Store
}

// permission deve ser chamado com o lock adquirido
func (s *Store) permission(p *project.Project, userID string) project.Permission {
	if p.OwnerID == userID {
		return project.PermissionManage
	}
	return s.members[p.ID][userID]
}

func (s *Store) projectView(p *project.Project, userID string) *project.Project {
	cp := *p
	cp.Permission = s.permission(p, userID)
	return &cp
}

func (r *ProjectRepository) Create(ctx context.Context, p *project.Project) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	cp := *p
	r.s.projects[p.ID] = &cp
	return nil
}

func (r *ProjectRepository) FindByID(ctx context.Context, id string) (*project.Project, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := r.s.projects[id]
	if !ok {
		return nil, project.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *ProjectRepository) FindAccessibleByName(ctx context.Context, userID, name string) (*project.Project, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var found *project.Project
	for _, p := range r.s.projects {
		if !strings.EqualFold(p.Name, strings.TrimSpace(name)) || r.s.permission(p, userID) == project.PermissionNone {
			continue
		}
		// Projetos próprios têm preferência sobre os compartilhados
		if found == nil || (p.OwnerID == userID && found.OwnerID != userID) ||
			(p.OwnerID == found.OwnerID && p.CreatedAt.Before(found.CreatedAt)) {
			found = p
		}
	}
	if found == nil {
		return nil, project.ErrNotFound
	}
	return r.s.projectView(found, userID), nil
}

func (r *ProjectRepository) GetOrCreateInbox(ctx context.Context, userID string) (*project.Project, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, p := range r.s.projects {
		if p.IsInbox && p.OwnerID == userID {
			return r.s.projectView(p, userID), nil
		}
	}
	inbox := project.NewInbox(userID)
	r.s.projects[inbox.ID] = inbox
	return r.s.projectView(inbox, userID), nil
}

func (r *ProjectRepository) ListAccessible(ctx context.Context, userID string) ([]*project.Project, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var list []*project.Project
	for _, p := range r.s.projects {
		if r.s.permission(p, userID) == project.PermissionNone {
			continue
		}
		list = append(list, r.s.projectView(p, userID))
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].IsInbox != list[j].IsInbox {
			return list[i].IsInbox
		}
		return list[i].CreatedAt.Before(list[j].CreatedAt)
	})
	return list, nil
}

func (r *ProjectRepository) Permission(ctx context.Context, projectID, userID string) (project.Permission, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := r.s.projects[projectID]
	if !ok {
		return project.PermissionNone, project.ErrNotFound
	}
	return r.s.permission(p, userID), nil
}

func (r *ProjectRepository) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.projects[id]; !ok {
		return project.ErrNotFound
	}
	delete(r.s.projects, id)
	delete(r.s.members, id)
	for sid, sec := range r.s.sections {
		if sec.ProjectID == id {
			delete(r.s.sections, sid)
		}
	}
	r.s.removeTasks(func(t *task.Task) bool { return t.ProjectID == id })
	return nil
}

func (r *ProjectRepository) Share(ctx context.Context, m *project.Member) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.projects[m.ProjectID]; !ok {
		return project.ErrNotFound
	}
	if r.s.members[m.ProjectID] == nil {
		r.s.members[m.ProjectID] = make(map[string]project.Permission)
	}
	r.s.members[m.ProjectID][m.UserID] = m.Permission
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}
	return nil
}

func (r *ProjectRepository) FindSectionByName(ctx context.Context, projectID, name string) (*project.Section, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, sec := range r.s.sections {
		if sec.ProjectID == projectID && strings.EqualFold(sec.Name, strings.TrimSpace(name)) {
			cp := *sec
			return &cp, nil
		}
	}
	return nil, project.ErrSectionNotFound
}

func (r *ProjectRepository) ListSections(ctx context.Context, projectID string) ([]*project.Section, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var list []*project.Section
	for _, sec := range r.s.sections {
		if sec.ProjectID == projectID {
			cp := *sec
			list = append(list, &cp)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Order < list[j].Order })
	return list, nil
}

func (r *ProjectRepository) CreateSection(ctx context.Context, sec *project.Section) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.projects[sec.ProjectID]; !ok {
		return project.ErrNotFound
	}
	var last float64
	for _, other := range r.s.sections {
		if other.ProjectID == sec.ProjectID && other.Order > last {
			last = other.Order
		}
	}
	sec.Order = last + 1
	cp := *sec
	r.s.sections[sec.ID] = &cp
	return nil
}

func (r *ProjectRepository) DeleteSection(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.sections[id]; !ok {
		return project.ErrSectionNotFound
	}
	delete(r.s.sections, id)
	for _, t := range r.s.tasks {
		if t.SectionID == id {
			t.SectionID = ""
		}
	}
	return nil
}
