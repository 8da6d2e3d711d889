// Package clienttest runs an in-process stand-in for the hosted
// backend: the auth endpoints plus the table endpoints the client
// consumes, speaking the same filter grammar (id=eq.N) and header
// policy (apikey everywhere, bearer on the table routes).
package clienttest

import (
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	disciteomnes "github.com/Mas20150/DisciteOmnes"
)

const APIKey = "test-anon-key"

type userRecord struct {
	id           string
	email        string
	passwordHash []byte
}

type Server struct {
	*httptest.Server

	// FailJoin makes every membership write answer 500, to exercise the
	// create-then-join gap.
	FailJoin bool

	mu       sync.Mutex
	users    map[string]userRecord // email -> record
	tokens   map[string]string     // token -> user id
	profiles []disciteomnes.Profile
	tasks    []disciteomnes.Task
	nextTask int
	groups   map[string]disciteomnes.Group
	members  []disciteomnes.GroupMembership
	plans    []disciteomnes.StudyPlan
	nextPlan int
	steps    []disciteomnes.StudyStep
	nextStep int
}

func NewServer() *Server {
	s := &Server{
		users:    make(map[string]userRecord),
		tokens:   make(map[string]string),
		groups:   make(map[string]disciteomnes.Group),
		nextTask: 1,
		nextPlan: 1,
		nextStep: 1,
	}

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(s.requireAPIKey)

	router.POST("/auth/v1/signup", s.signup)
	router.POST("/auth/v1/token", s.token)
	router.GET("/auth/v1/user", s.currentUser)

	rest := router.Group("/rest/v1", s.requireBearer)
	rest.POST("/profiles", s.createProfile)
	rest.GET("/tasks", s.listTasks)
	rest.POST("/tasks", s.createTask)
	rest.PATCH("/tasks", s.updateTask)
	rest.DELETE("/tasks", s.deleteTask)
	rest.POST("/groups", s.createGroup)
	rest.POST("/group_members", s.joinGroup)
	rest.GET("/group_members", s.listMemberships)
	rest.GET("/study_plans", s.listPlans)
	rest.POST("/study_plans", s.createPlan)
	rest.GET("/study_steps", s.listSteps)
	rest.POST("/study_steps", s.createStep)

	s.Server = httptest.NewServer(router)
	return s
}

func (s *Server) requireAPIKey(c *gin.Context) {
	if c.GetHeader("apikey") != APIKey {
		c.AbortWithStatusJSON(401, gin.H{"message": "No API key found in request"})
		return
	}
	c.Next()
}

func (s *Server) requireBearer(c *gin.Context) {
	if _, ok := s.bearerUser(c); !ok {
		c.AbortWithStatusJSON(401, gin.H{"message": "JWT required"})
		return
	}
	c.Next()
}

func (s *Server) bearerUser(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return "", false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.tokens[strings.TrimPrefix(header, "Bearer ")]
	return id, ok
}

func (s *Server) signup(c *gin.Context) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BindJSON(&body); err != nil {
		return
	}

	if len(body.Password) < 6 {
		c.JSON(422, gin.H{"msg": "Password should be at least 6 characters"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[body.Email]; ok {
		c.JSON(422, gin.H{"msg": "User already registered"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.MinCost)
	if err != nil {
		c.JSON(500, gin.H{"message": err.Error()})
		return
	}

	record := userRecord{
		id:           uuid.NewString(),
		email:        body.Email,
		passwordHash: hash,
	}
	s.users[body.Email] = record
	c.JSON(200, gin.H{"id": record.id})
}

func (s *Server) token(c *gin.Context) {
	if c.Query("grant_type") != "password" {
		c.JSON(400, gin.H{"error_description": "unsupported grant type"})
		return
	}

	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BindJSON(&body); err != nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.users[body.Email]
	if !ok || bcrypt.CompareHashAndPassword(record.passwordHash, []byte(body.Password)) != nil {
		c.JSON(400, gin.H{"error_description": "Invalid login credentials"})
		return
	}

	token := uuid.NewString()
	s.tokens[token] = record.id
	c.JSON(200, gin.H{"access_token": token, "token_type": "bearer"})
}

func (s *Server) currentUser(c *gin.Context) {
	id, ok := s.bearerUser(c)
	if !ok {
		c.JSON(401, gin.H{"msg": "invalid JWT"})
		return
	}
	c.JSON(200, gin.H{"id": id})
}

func (s *Server) createProfile(c *gin.Context) {
	var profile disciteomnes.Profile
	if err := c.BindJSON(&profile); err != nil {
		return
	}

	s.mu.Lock()
	s.profiles = append(s.profiles, profile)
	s.mu.Unlock()
	c.JSON(201, profile)
}

// eqParam extracts X from a "eq.X" query value.
func eqParam(c *gin.Context, name string) (string, bool) {
	value := c.Query(name)
	if !strings.HasPrefix(value, "eq.") {
		return "", false
	}
	return strings.TrimPrefix(value, "eq."), true
}

func (s *Server) listTasks(c *gin.Context) {
	userID, ok := eqParam(c, "user_id")
	if !ok {
		c.JSON(400, gin.H{"message": "missing user_id filter"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	rows := make([]disciteomnes.Task, 0)
	for _, task := range s.tasks {
		if task.UserID == userID {
			rows = append(rows, task)
		}
	}
	c.JSON(200, rows)
}

func (s *Server) createTask(c *gin.Context) {
	var request disciteomnes.TaskRequest
	if err := c.BindJSON(&request); err != nil {
		return
	}

	s.mu.Lock()
	task := disciteomnes.Task{
		ID:        s.nextTask,
		Title:     request.Title,
		DueDate:   request.DueDate,
		Completed: request.Completed,
		UserID:    request.UserID,
	}
	s.nextTask++
	s.tasks = append(s.tasks, task)
	s.mu.Unlock()

	c.JSON(201, []disciteomnes.Task{task})
}

func (s *Server) updateTask(c *gin.Context) {
	idStr, ok := eqParam(c, "id")
	if !ok {
		c.JSON(400, gin.H{"message": "missing id filter"})
		return
	}
	id, err := strconv.Atoi(idStr)
	if err != nil {
		c.JSON(400, gin.H{"message": "bad id filter"})
		return
	}

	var update disciteomnes.TaskUpdate
	if err := c.BindJSON(&update); err != nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	rows := make([]disciteomnes.Task, 0, 1)
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			s.tasks[i].Completed = update.Completed
			rows = append(rows, s.tasks[i])
		}
	}
	c.JSON(200, rows)
}

func (s *Server) deleteTask(c *gin.Context) {
	idStr, ok := eqParam(c, "id")
	if !ok {
		c.JSON(400, gin.H{"message": "missing id filter"})
		return
	}
	id, err := strconv.Atoi(idStr)
	if err != nil {
		c.JSON(400, gin.H{"message": "bad id filter"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.tasks[:0]
	for _, task := range s.tasks {
		if task.ID != id {
			kept = append(kept, task)
		}
	}
	s.tasks = kept
	c.Status(204)
}

func (s *Server) createGroup(c *gin.Context) {
	userID, _ := s.bearerUser(c)

	var request disciteomnes.GroupRequest
	if err := c.BindJSON(&request); err != nil {
		return
	}

	group := disciteomnes.Group{
		ID:        uuid.NewString(),
		Name:      request.Name,
		CreatedBy: userID,
	}

	s.mu.Lock()
	s.groups[group.ID] = group
	s.mu.Unlock()

	c.JSON(201, []disciteomnes.Group{group})
}

func (s *Server) joinGroup(c *gin.Context) {
	if s.FailJoin {
		c.JSON(500, gin.H{"message": "join failed"})
		return
	}

	var membership disciteomnes.GroupMembership
	if err := c.BindJSON(&membership); err != nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.groups[membership.GroupID]; !ok {
		c.JSON(409, gin.H{"message": "foreign key violation on group_members"})
		return
	}
	s.members = append(s.members, membership)
	c.Status(204)
}

func (s *Server) listMemberships(c *gin.Context) {
	userID, ok := eqParam(c, "user_id")
	if !ok {
		c.JSON(400, gin.H{"message": "missing user_id filter"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	rows := make([]disciteomnes.GroupMember, 0)
	for _, membership := range s.members {
		if membership.UserID != userID {
			continue
		}
		group := s.groups[membership.GroupID]
		rows = append(rows, disciteomnes.GroupMember{
			Group: disciteomnes.Group{ID: group.ID, Name: group.Name},
		})
	}
	c.JSON(200, rows)
}

func (s *Server) listPlans(c *gin.Context) {
	groupID, ok := eqParam(c, "group_id")
	if !ok {
		c.JSON(400, gin.H{"message": "missing group_id filter"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	rows := make([]disciteomnes.StudyPlan, 0)
	for _, plan := range s.plans {
		if plan.GroupID == groupID {
			rows = append(rows, plan)
		}
	}
	c.JSON(200, rows)
}

func (s *Server) createPlan(c *gin.Context) {
	var request disciteomnes.StudyPlanRequest
	if err := c.BindJSON(&request); err != nil {
		return
	}

	s.mu.Lock()
	s.plans = append(s.plans, disciteomnes.StudyPlan{
		ID:      s.nextPlan,
		GroupID: request.GroupID,
		Title:   request.Title,
	})
	s.nextPlan++
	s.mu.Unlock()
	c.Status(201)
}

func (s *Server) listSteps(c *gin.Context) {
	planIDStr, ok := eqParam(c, "plan_id")
	if !ok {
		c.JSON(400, gin.H{"message": "missing plan_id filter"})
		return
	}
	planID, err := strconv.Atoi(planIDStr)
	if err != nil {
		c.JSON(400, gin.H{"message": "bad plan_id filter"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	rows := make([]disciteomnes.StudyStep, 0)
	for _, step := range s.steps {
		if step.PlanID == planID {
			rows = append(rows, step)
		}
	}
	c.JSON(200, rows)
}

func (s *Server) createStep(c *gin.Context) {
	var request disciteomnes.StudyStepRequest
	if err := c.BindJSON(&request); err != nil {
		return
	}

	s.mu.Lock()
	s.steps = append(s.steps, disciteomnes.StudyStep{
		ID:          s.nextStep,
		PlanID:      request.PlanID,
		Title:       request.Title,
		DueDate:     request.DueDate,
		CompletedBy: []string{},
	})
	s.nextStep++
	s.mu.Unlock()
	c.Status(201)
}

// Seed registers a user and hands back an already-issued token,
// bypassing the signup and token endpoints. For tests that are not
// about authentication itself.
func (s *Server) Seed(email, password string) (token, userID string) {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	record := userRecord{
		id:           uuid.NewString(),
		email:        email,
		passwordHash: hash,
	}
	token = uuid.NewString()

	s.mu.Lock()
	s.users[email] = record
	s.tokens[token] = record.id
	s.mu.Unlock()
	return token, record.id
}

// GroupNamed reports the stored group with the given name, creation
// order unspecified. Used by tests asserting on the create-then-join
// gap.
func (s *Server) GroupNamed(name string) (disciteomnes.Group, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, group := range s.groups {
		if group.Name == name {
			return group, true
		}
	}
	return disciteomnes.Group{}, false
}

// Profiles returns a copy of the stored profile rows.
func (s *Server) Profiles() []disciteomnes.Profile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]disciteomnes.Profile(nil), s.profiles...)
}
