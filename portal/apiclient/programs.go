package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

func (c *Client) ListPrograms(ctx context.Context) ([]Program, error) {
	var progs []Program
	err := c.do(ctx, http.MethodGet, "/api/programs/programs/", true, nil, &progs)
	return progs, err
}

func (c *Client) CreateProgram(ctx context.Context, in ProgramInput) (Program, error) {
	var prog Program
	err := c.do(ctx, http.MethodPost, "/api/programs/programs/", true, in, &prog)
	return prog, err
}

func (c *Client) UpdateProgram(ctx context.Context, id int, in ProgramInput) (Program, error) {
	var prog Program
	err := c.do(ctx, http.MethodPut, fmt.Sprintf("/api/programs/programs/%d/", id), true, in, &prog)
	return prog, err
}

func (c *Client) DeleteProgram(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/programs/programs/%d/", id), true, nil, nil)
}

func (c *Client) ListSubjects(ctx context.Context) ([]Subject, error) {
	var subjects []Subject
	err := c.do(ctx, http.MethodGet, "/api/programs/subjects/", true, nil, &subjects)
	return subjects, err
}

func (c *Client) CreateSubject(ctx context.Context, in SubjectInput) (Subject, error) {
	var subj Subject
	err := c.do(ctx, http.MethodPost, "/api/programs/subjects/", true, in, &subj)
	return subj, err
}

func (c *Client) UpdateSubject(ctx context.Context, id int, in SubjectInput) (Subject, error) {
	var subj Subject
	err := c.do(ctx, http.MethodPut, fmt.Sprintf("/api/programs/subjects/%d/", id), true, in, &subj)
	return subj, err
}

func (c *Client) DeleteSubject(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/programs/subjects/%d/", id), true, nil, nil)
}

// ListSchedules lists the schedules of one subject, or all of them when subjectID is 0.
func (c *Client) ListSchedules(ctx context.Context, subjectID int) ([]Schedule, error) {
	path := "/api/programs/schedules/"
	if subjectID != 0 {
		path += "?" + url.Values{"subject_id": {strconv.Itoa(subjectID)}}.Encode()
	}
	var scheds []Schedule
	err := c.do(ctx, http.MethodGet, path, true, nil, &scheds)
	return scheds, err
}

func (c *Client) CreateSchedule(ctx context.Context, in ScheduleInput) (Schedule, error) {
	var sched Schedule
	err := c.do(ctx, http.MethodPost, "/api/programs/schedules/", true, in, &sched)
	return sched, err
}

func (c *Client) UpdateSchedule(ctx context.Context, id int, in ScheduleInput) (Schedule, error) {
	var sched Schedule
	err := c.do(ctx, http.MethodPut, fmt.Sprintf("/api/programs/schedules/%d/", id), true, in, &sched)
	return sched, err
}

func (c *Client) DeleteSchedule(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/programs/schedules/%d/", id), true, nil, nil)
}
