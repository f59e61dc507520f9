package inmemdb

import (
	"sort"
	"sync"

	"github.com/trezcool/schoolconnect/core/assignment"
	"github.com/trezcool/schoolconnect/core/attendance"
	"github.com/trezcool/schoolconnect/core/event"
	"github.com/trezcool/schoolconnect/core/grade"
	"github.com/trezcool/schoolconnect/core/message"
	"github.com/trezcool/schoolconnect/core/news"
	"github.com/trezcool/schoolconnect/core/notification"
	"github.com/trezcool/schoolconnect/core/resource"
	"github.com/trezcool/schoolconnect/core/student"
	"github.com/trezcool/schoolconnect/core/user"
)

type (
	// DB holds every collection in process memory. All tables share one lock so that
	// cascading writes (assignment + status rows) stay atomic.
	DB struct {
		mu sync.RWMutex

		users            map[int]*user.User
		students         map[int]*student.Student
		notes            map[int]*student.Note
		attendance       map[int]*attendance.Record
		grades           map[int]*grade.Grade
		assignments      map[int]*assignment.Assignment
		assignmentStatus map[int]*assignment.Status
		messages         map[int]*message.Message
		events           map[int]*event.Event
		news             map[int]*news.Item
		resources        map[int]*resource.Resource
		resourceRequests map[int]*resource.Request
		notifications    map[int]*notification.Notification
		seq              sequences
	}

	// sequences hold the last id handed out per table. Ids are never reused.
	sequences struct {
		user, student, note, attendance, grade, assignment, assignmentStatus int
		message, chat, event, news, resource, resourceRequest, notification  int
	}
)

// Open returns an empty DB, filled with the demo data when seed is set.
func Open(seed bool) (*DB, error) {
	db := &DB{
		users:            make(map[int]*user.User),
		students:         make(map[int]*student.Student),
		notes:            make(map[int]*student.Note),
		attendance:       make(map[int]*attendance.Record),
		grades:           make(map[int]*grade.Grade),
		assignments:      make(map[int]*assignment.Assignment),
		assignmentStatus: make(map[int]*assignment.Status),
		messages:         make(map[int]*message.Message),
		events:           make(map[int]*event.Event),
		news:             make(map[int]*news.Item),
		resources:        make(map[int]*resource.Resource),
		resourceRequests: make(map[int]*resource.Request),
		notifications:    make(map[int]*notification.Notification),
	}
	if seed {
		if err := db.seed(); err != nil {
			return nil, err
		}
	}
	return db, nil
}

func next(seq *int) int {
	*seq++
	return *seq
}

// sortedKeys returns the ids of a table in ascending order, for stable listings.
func sortedKeys[V any](table map[int]V) []int {
	ids := make([]int, 0, len(table))
	for id := range table {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}
