package shell

import (
	"context"
	"fmt"
	"strconv"

	"github.com/Mas20150/DisciteOmnes/errors"
	"github.com/Mas20150/DisciteOmnes/screens"
	"github.com/Mas20150/DisciteOmnes/session"
)

func (s *Shell) execute(ctx context.Context, args []string) error {
	switch args[0] {
	case "help":
		s.printHelp()
		return nil
	case "register":
		return s.handleRegister(ctx, args[1:])
	case "login":
		return s.handleLogin(ctx, args[1:])
	case "logout":
		return s.handleLogout(ctx)
	case "groups":
		return s.handleGroups(ctx)
	case "group":
		return s.handleGroup(ctx, args[1:])
	case "tasks":
		return s.handleTasks(ctx)
	case "task":
		return s.handleTask(ctx, args[1:])
	case "plans":
		return s.handlePlans(ctx)
	case "plan":
		return s.handlePlan(ctx, args[1:])
	case "steps":
		return s.handleSteps(ctx)
	case "step":
		return s.handleStep(ctx, args[1:])
	default:
		return errors.New(fmt.Sprintf("unknown command %q, try 'help'", args[0]), errors.BadRequest())
	}
}

func (s *Shell) handleRegister(ctx context.Context, args []string) error {
	if len(args) != 3 {
		return usage("register <name> <email> <password>")
	}

	controller := screens.NewRegisterController(s.store, s.auth, s.log, s.loop)
	done := false
	controller.OnSuccess = func() { done = true }

	if err := controller.Submit(ctx, args[0], args[1], args[2]); err != nil {
		return err
	}
	s.loop.Step()

	if !done {
		return controller.Err()
	}
	fmt.Fprintln(s.out, "Account created, you can log in now.")
	return nil
}

func (s *Shell) handleLogin(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return usage("login <email> <password>")
	}

	controller := screens.NewLoginController(s.store, s.auth, s.groups, s.log, s.loop)
	done := false
	controller.OnSuccess = func() { done = true }

	if err := controller.Submit(ctx, args[0], args[1]); err != nil {
		return err
	}
	s.loop.Step()

	if !done {
		return controller.Err()
	}
	fmt.Fprintln(s.out, "Signed in.")
	return nil
}

func (s *Shell) handleLogout(ctx context.Context) error {
	controller := screens.NewDashboardController(s.store, s.groups, s.log, s.loop)
	controller.OnUnauthenticated = func() {}

	if err := controller.Logout(); err != nil {
		return err
	}
	s.openPlan.ID = 0
	fmt.Fprintln(s.out, "Signed out.")
	return nil
}

func (s *Shell) handleGroups(ctx context.Context) error {
	controller, err := s.dashboard(ctx)
	if err != nil || controller == nil {
		return err
	}
	screens.NewPresenter(s.out, "Your groups").Render(controller.Rows())
	return nil
}

func (s *Shell) handleGroup(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return usage("group create <name> | group join <group-id> | group use <n>")
	}

	switch args[0] {
	case "create":
		if len(args) != 2 {
			return usage(`group create "<name>"`)
		}
		return s.groupAction(ctx, func(controller *screens.GroupsController) error {
			return controller.CreateAndJoin(ctx, args[1])
		})
	case "join":
		if len(args) != 2 {
			return usage("group join <group-id>")
		}
		return s.groupAction(ctx, func(controller *screens.GroupsController) error {
			return controller.Join(ctx, args[1])
		})
	case "use":
		if len(args) != 2 {
			return usage("group use <n>")
		}
		return s.useGroup(ctx, args[1])
	default:
		return usage("group create <name> | group join <group-id> | group use <n>")
	}
}

// groupAction loads the groups screen, runs one mutating action on it
// and renders the refreshed listing.
func (s *Shell) groupAction(ctx context.Context, action func(*screens.GroupsController) error) error {
	controller := screens.NewGroupsController(s.store, s.groups, s.log, s.loop)
	signedOut := false
	controller.OnUnauthenticated = func() { signedOut = true }

	controller.Activate(ctx)
	if signedOut {
		fmt.Fprintln(s.out, "Sign in first: login <email> <password>")
		return nil
	}
	s.loop.Step()
	if controller.State() == screens.StateError {
		return controller.Err()
	}

	if err := action(controller); err != nil {
		return err
	}
	s.loop.Step()
	if controller.State() == screens.StateError {
		return controller.Err()
	}

	screens.NewPresenter(s.out, "Your groups").Render(controller.Rows())
	return nil
}

func (s *Shell) useGroup(ctx context.Context, position string) error {
	controller, err := s.dashboard(ctx)
	if err != nil || controller == nil {
		return err
	}

	index, err := position1(position, len(controller.Groups()))
	if err != nil {
		return err
	}

	group := controller.Groups()[index]
	if err := s.store.Set(session.KeyGroupID, group.ID); err != nil {
		return err
	}
	s.openPlan.ID = 0
	fmt.Fprintf(s.out, "Active group: %s\n", group.Name)
	return nil
}

// dashboard loads the group listing. A nil controller with a nil error
// means the user is signed out and a hint was already printed.
func (s *Shell) dashboard(ctx context.Context) (*screens.DashboardController, error) {
	controller := screens.NewDashboardController(s.store, s.groups, s.log, s.loop)
	signedOut := false
	controller.OnUnauthenticated = func() { signedOut = true }

	controller.Activate(ctx)
	if signedOut {
		fmt.Fprintln(s.out, "Sign in first: login <email> <password>")
		return nil, nil
	}
	s.loop.Step()
	if controller.State() == screens.StateError {
		return nil, controller.Err()
	}
	return controller, nil
}

func (s *Shell) handleTasks(ctx context.Context) error {
	controller, err := s.taskList(ctx)
	if err != nil || controller == nil {
		return err
	}
	screens.NewPresenter(s.out, "Your tasks").Render(controller.Rows())
	return nil
}

func (s *Shell) handleTask(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return usage("task add <title> <due-date> | task done <n> | task rm <n>")
	}

	controller, err := s.taskList(ctx)
	if err != nil || controller == nil {
		return err
	}

	switch args[0] {
	case "add":
		if len(args) != 3 {
			return usage(`task add "<title>" <due-date>`)
		}
		err = controller.Add(ctx, args[1], args[2])
	case "done":
		if len(args) != 2 {
			return usage("task done <n>")
		}
		var index int
		index, err = position1(args[1], len(controller.Tasks()))
		if err != nil {
			return err
		}
		err = controller.Toggle(ctx, index)
	case "rm":
		if len(args) != 2 {
			return usage("task rm <n>")
		}
		var index int
		index, err = position1(args[1], len(controller.Tasks()))
		if err != nil {
			return err
		}
		err = controller.Remove(ctx, index)
	default:
		return usage("task add <title> <due-date> | task done <n> | task rm <n>")
	}

	if err != nil {
		return err
	}
	s.loop.Step()
	if controller.State() == screens.StateError {
		return controller.Err()
	}

	screens.NewPresenter(s.out, "Your tasks").Render(controller.Rows())
	return nil
}

// taskList loads the task screen for the signed-in user.
func (s *Shell) taskList(ctx context.Context) (*screens.TasksController, error) {
	controller := screens.NewTasksController(s.store, s.tasks, s.log, s.loop)
	signedOut := false
	controller.OnUnauthenticated = func() { signedOut = true }

	controller.Activate(ctx)
	if signedOut {
		fmt.Fprintln(s.out, "Sign in first: login <email> <password>")
		return nil, nil
	}
	s.loop.Step()
	if controller.State() == screens.StateError {
		return nil, controller.Err()
	}
	return controller, nil
}

func (s *Shell) handlePlans(ctx context.Context) error {
	controller, err := s.planList(ctx)
	if err != nil || controller == nil {
		return err
	}
	screens.NewPresenter(s.out, "Study plans").Render(controller.Rows())
	return nil
}

func (s *Shell) handlePlan(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return usage("plan add <title> | plan open <n>")
	}

	controller, err := s.planList(ctx)
	if err != nil || controller == nil {
		return err
	}

	switch args[0] {
	case "add":
		if len(args) != 2 {
			return usage(`plan add "<title>"`)
		}
		if err := controller.AddPlan(ctx, args[1]); err != nil {
			return err
		}
		s.loop.Step()
		if controller.State() == screens.StateError {
			return controller.Err()
		}
		screens.NewPresenter(s.out, "Study plans").Render(controller.Rows())
		return nil
	case "open":
		if len(args) != 2 {
			return usage("plan open <n>")
		}
		index, err := position1(args[1], len(controller.Plans()))
		if err != nil {
			return err
		}
		plan, err := controller.Plan(index)
		if err != nil {
			return err
		}
		s.openPlan = plan
		fmt.Fprintf(s.out, "Open plan: %s\n", plan.Title)
		return s.handleSteps(ctx)
	default:
		return usage("plan add <title> | plan open <n>")
	}
}

// planList loads the plan screen for the active group.
func (s *Shell) planList(ctx context.Context) (*screens.PlannerController, error) {
	controller := screens.NewPlannerController(s.store, s.plans, s.log, s.loop)
	noGroup := false
	controller.OnUnauthenticated = func() { noGroup = true }

	controller.Activate(ctx)
	if noGroup {
		fmt.Fprintln(s.out, "Pick a group first: groups, then group use <n>")
		return nil, nil
	}
	s.loop.Step()
	if controller.State() == screens.StateError {
		return nil, controller.Err()
	}
	return controller, nil
}

func (s *Shell) handleSteps(ctx context.Context) error {
	controller, err := s.stepList(ctx)
	if err != nil || controller == nil {
		return err
	}
	if controller.Empty() {
		fmt.Fprintf(s.out, "%s has no steps yet. Add one: step add <title> <due-date>\n", s.openPlan.Title)
		return nil
	}
	screens.NewPresenter(s.out, s.openPlan.Title).Render(controller.Rows())
	return nil
}

func (s *Shell) handleStep(ctx context.Context, args []string) error {
	if len(args) != 3 || args[0] != "add" {
		return usage(`step add "<title>" <due-date>`)
	}

	controller, err := s.stepList(ctx)
	if err != nil || controller == nil {
		return err
	}

	if err := controller.AddStep(ctx, args[1], args[2]); err != nil {
		return err
	}
	s.loop.Step()
	if controller.State() == screens.StateError {
		return controller.Err()
	}

	screens.NewPresenter(s.out, s.openPlan.Title).Render(controller.Rows())
	return nil
}

// stepList loads the step screen for the open plan.
func (s *Shell) stepList(ctx context.Context) (*screens.StepsController, error) {
	if s.openPlan.ID == 0 {
		fmt.Fprintln(s.out, "Open a plan first: plans, then plan open <n>")
		return nil, nil
	}

	controller := screens.NewStepsController(s.store, s.plans, s.openPlan.ID, s.log, s.loop)
	signedOut := false
	controller.OnUnauthenticated = func() { signedOut = true }

	controller.Activate(ctx)
	if signedOut {
		fmt.Fprintln(s.out, "Sign in first: login <email> <password>")
		return nil, nil
	}
	s.loop.Step()
	if controller.State() == screens.StateError {
		return nil, controller.Err()
	}
	return controller, nil
}

func (s *Shell) printHelp() {
	fmt.Fprint(s.out, `Commands:
  register <name> <email> <password>   create an account
  login <email> <password>             sign in
  logout                               sign out and clear the session

  groups                               list your groups
  group create "<name>"                create a group and join it
  group join <group-id>                join an existing group by id
  group use <n>                        make the n-th listed group active

  tasks                                list your tasks
  task add "<title>" <due-date>        add a task (date as YYYY-MM-DD)
  task done <n>                        toggle the n-th task
  task rm <n>                          delete the n-th task

  plans                                list the active group's study plans
  plan add "<title>"                   add a study plan
  plan open <n>                        open the n-th plan's steps
  steps                                list the open plan's steps
  step add "<title>" <due-date>        add a step to the open plan

  quit                                 leave
`)
}

func usage(text string) error {
	return errors.New("usage: "+text, errors.BadRequest())
}

// position1 converts a 1-based display position into a slice index.
func position1(arg string, length int) (int, error) {
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 || n > length {
		return 0, errors.New(fmt.Sprintf("no entry at position %q", arg), errors.BadRequest())
	}
	return n - 1, nil
}
