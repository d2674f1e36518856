package core

// Operator checks the super-admin credential configured for the deployment.
type Operator struct {
	conf OperatorConfig
}

func NewOperator(conf *Config) Operator {
	return Operator{conf: conf.Operator}
}

func (op Operator) Configured() bool {
	return op.conf.Configured()
}

// Authenticate matches the trimmed name exactly and the code ignoring case and whitespace.
// It returns ErrNotConfigured when no operator credential is set.
func (op Operator) Authenticate(name, code string) (bool, error) {
	if !op.Configured() {
		return false, ErrNotConfigured
	}
	name = CleanString(name)
	code = StripSpaces(code, true /* lower */)
	if name == "" || code == "" {
		return false, nil
	}
	return name == op.conf.Name && code == StripSpaces(op.conf.Code, true /* lower */), nil
}
