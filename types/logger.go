package types

// Logger is the logging interface of the DA clients. It is satisfied by the tendermint logger.
type Logger interface {
	Debug(msg string, keyvals ...interface{})
	Info(msg string, keyvals ...interface{})
	Error(msg string, keyvals ...interface{})
}
