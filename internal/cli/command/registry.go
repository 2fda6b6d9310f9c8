package command

// Registry returns all CLI commands keyed by "service action".
func Registry() map[string]Command {
	commands := []Command{
		{
			Service:      "player",
			Action:       "auth",
			Method:       "POST",
			PathTemplate: "/api/auth",
			Fields: []Field{
				{Name: "user_id", Prompt: "user_id", Type: FieldString, Required: true},
				{Name: "password", Prompt: "password", Type: FieldString, Required: true},
			},
		},
		{
			Service:      "player",
			Action:       "submit",
			Method:       "POST",
			PathTemplate: "/api/submit",
			RequiresAuth: true,
			Fields: []Field{
				{Name: "language", Prompt: "language (rust|cpp|javascript|python|java)", Type: FieldString, Required: true},
				{Name: "code", Prompt: "code (end with a lone '.')", Type: FieldText, Required: true},
			},
		},
		{
			Service:      "admin",
			Action:       "auth",
			Method:       "POST",
			PathTemplate: "/admin/auth",
			RawBody:      true,
			Fields: []Field{
				{Name: "password", Prompt: "admin password", Type: FieldString, Required: true},
			},
		},
		{
			Service:      "admin",
			Action:       "add-player",
			Method:       "POST",
			PathTemplate: "/admin/add_player",
			RequiresAuth: true,
			Fields: []Field{
				{Name: "user_id", Prompt: "user_id", Type: FieldString, Required: true},
				{Name: "password", Prompt: "password", Type: FieldString, Required: true},
			},
		},
		{
			Service:      "admin",
			Action:       "change-password",
			Method:       "POST",
			PathTemplate: "/admin/change_password",
			RequiresAuth: true,
			Fields: []Field{
				{Name: "user_id", Prompt: "user_id", Type: FieldString, Required: true},
				{Name: "password", Prompt: "new password", Type: FieldString, Required: true},
			},
		},
		{
			Service:      "admin",
			Action:       "players",
			Method:       "GET",
			PathTemplate: "/admin/get_players",
			RequiresAuth: true,
		},
		{
			Service:      "admin",
			Action:       "submissions",
			Method:       "GET",
			PathTemplate: "/admin/get_submissions",
			RequiresAuth: true,
		},
	}

	out := make(map[string]Command, len(commands))
	for _, cmd := range commands {
		out[cmd.Key()] = cmd
	}
	return out
}
