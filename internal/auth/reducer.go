package auth

// InitialState is the state before the persisted user has been loaded.
func InitialState() State {
	return State{IsLoading: true}
}

// Reduce returns the state that results from applying action to state.
func Reduce(state State, action Action) State {
	switch a := action.(type) {
	case LoginStart, RegisterStart:
		state.IsLoading = true
	case LoginSuccess:
		state = signedIn(a.User)
	case RegisterSuccess:
		state = signedIn(a.User)
	case LoginError, RegisterError, Logout:
		state = State{}
	case LoadUser:
		state = State{}
		if a.User != nil {
			state = signedIn(*a.User)
		}
	}
	state.IsAuthenticated = state.User != nil
	return state
}

func signedIn(u User) State {
	return State{User: &u, IsAuthenticated: true}
}
