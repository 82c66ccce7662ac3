package hackernews

import (
	"github.com/LISSConsulting/LISSTech.Flow/internal/observable"
	"github.com/LISSConsulting/LISSTech.Flow/internal/store"
)

// Item list action tags.
const (
	ItemsLoaded  = "[News] Loaded"
	ItemsCreated = "[News] Created"
)

// ItemsAction changes the item list held by a StatefulService.
type ItemsAction struct {
	Type string
	IDs  []int
	ID   int
}

// ReduceItems replaces the list on ItemsLoaded and appends on ItemsCreated.
// The input slice is never modified.
func ReduceItems(items []int, a ItemsAction) []int {
	switch a.Type {
	case ItemsLoaded:
		return append([]int(nil), a.IDs...)
	case ItemsCreated:
		next := make([]int, 0, len(items)+1)
		next = append(next, items...)
		return append(next, a.ID)
	default:
		return items
	}
}

// StatefulService wraps a Service and keeps the ids it has seen in a store,
// so several views can share one list.
type StatefulService struct {
	svc   *Service
	items *store.Store[[]int, ItemsAction]
}

// NewStateful wraps svc with an empty item store.
func NewStateful(svc *Service, opts ...store.Option[[]int, ItemsAction]) *StatefulService {
	return &StatefulService{
		svc:   svc,
		items: store.New(ReduceItems, []int{}, opts...),
	}
}

// FindAll fetches the ids and replaces the stored list before the value is
// passed on.
func (s *StatefulService) FindAll() observable.Source[[]int] {
	return observable.SourceFunc[[]int](func(o observable.Observer[[]int]) observable.Cancel {
		return s.svc.FindAll().Subscribe(observable.Observer[[]int]{
			Next: func(ids []int) {
				s.items.Dispatch(ItemsAction{Type: ItemsLoaded, IDs: ids})
				if o.Next != nil {
					o.Next(ids)
				}
			},
			Error:    o.Error,
			Complete: o.Complete,
		})
	})
}

// Create creates an item and appends its id to the stored list.
func (s *StatefulService) Create(data Item) observable.Source[int] {
	return observable.SourceFunc[int](func(o observable.Observer[int]) observable.Cancel {
		return s.svc.Create(data).Subscribe(observable.Observer[int]{
			Next: func(id int) {
				s.items.Dispatch(ItemsAction{Type: ItemsCreated, ID: id})
				if o.Next != nil {
					o.Next(id)
				}
			},
			Error:    o.Error,
			Complete: o.Complete,
		})
	})
}

// Items returns a copy of the stored ids.
func (s *StatefulService) Items() []int {
	return append([]int(nil), s.items.State()...)
}

// Subscribe registers fn to be called whenever the stored list changes.
func (s *StatefulService) Subscribe(fn store.Listener) store.Unsubscriber {
	return s.items.Subscribe(fn)
}
