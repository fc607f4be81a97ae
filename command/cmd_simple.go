package command

// KillBotsCommand stops the running match and all its processes.
type KillBotsCommand struct{}

func (c *KillBotsCommand) GetName() Name {
	return NameKillBots
}

func (c *KillBotsCommand) Build(_ []string) (Command, error) {
	return c, nil
}

// ShutDownCommand stops the match and ends the command loop.
type ShutDownCommand struct{}

func (c *ShutDownCommand) GetName() Name {
	return NameShutDown
}

func (c *ShutDownCommand) Build(_ []string) (Command, error) {
	return c, nil
}

// FetchGtpCommand asks for one telemetry snapshot.
type FetchGtpCommand struct{}

func (c *FetchGtpCommand) GetName() Name {
	return NameFetchGtp
}

func (c *FetchGtpCommand) Build(_ []string) (Command, error) {
	return c, nil
}
