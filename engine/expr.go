package engine

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/ardnew/macro/lang"
	"github.com/ardnew/macro/log"
	"github.com/ardnew/macro/value"
)

// Expr is an [Engine] that runs each statement of a code block as an
// expr-lang expression against the variables of the execution context.
//
// A code block is a sequence of statements separated by semicolons:
//
//	echo a, b        // writes the echo text of each expression
//	print a          // writes the echo text of one expression
//	name = a         // assigns; also .= (concatenate), += and -=
//	a                // evaluated and discarded
//
// A code block that starts with '=' is shorthand for echo, so
// "<?= title ?>" prints title. Undefined variables evaluate to nil.
//
// Expr holds no per-evaluation state and is safe for concurrent use with
// distinct contexts.
type Expr struct {
	logger log.Logger
}

// Option configures an [Expr].
type Option func(*Expr)

// WithLogger sets the logger used when the context carries none.
func WithLogger(logger log.Logger) Option {
	return func(e *Expr) {
		e.logger = logger
	}
}

// NewExpr returns an expr-lang backed engine.
func NewExpr(opts ...Option) *Expr {
	e := new(Expr)

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Evaluate implements [Engine].
func (e *Expr) Evaluate(
	ctx context.Context,
	prog *lang.Program,
	ec *Context,
) error {
	if prog == nil || ec == nil {
		return ErrProgram
	}

	logger := e.loggerFor(ec)

	logger.TraceContext(
		ctx,
		"evaluate program",
		slog.Int("instruction_count", prog.Len()),
		slog.Int("binding_count", len(ec.vars)),
	)

	for in := range prog.All() {
		if err := ctx.Err(); err != nil {
			return err
		}

		switch in.Op {
		case lang.OpEmitLiteral:
			if _, err := io.WriteString(ec.out, in.Literal()); err != nil {
				return ErrOutput.Wrap(err).With(slog.Int("line", in.Line))
			}

		case lang.OpRunCode:
			if _, err := e.run(ctx, ec, in.Text, in.Line); err != nil {
				return err
			}

		default:
			return ErrProgram.With(
				slog.String("op", in.Op.String()),
				slog.Int("line", in.Line),
			)
		}
	}

	return nil
}

// Eval runs one code block against ec and returns the value of its last
// statement. Echo and print statements yield nil.
func (e *Expr) Eval(ctx context.Context, ec *Context, code string) (any, error) {
	if ec == nil {
		return nil, ErrProgram
	}

	return e.run(ctx, ec, code, 1)
}

func (e *Expr) run(
	ctx context.Context,
	ec *Context,
	code string,
	line int,
) (any, error) {
	if rest, ok := strings.CutPrefix(code, "="); ok {
		code = "echo " + rest
	}

	var last any

	for _, src := range splitStatements(code) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		st, err := parseStatement(src)
		if err != nil {
			return nil, WrapError(err).With(
				slog.String("statement", src),
				slog.Int("line", line),
			)
		}

		last, err = e.exec(ctx, ec, st, line)
		if err != nil {
			return nil, err
		}
	}

	return last, nil
}

func (e *Expr) exec(
	ctx context.Context,
	ec *Context,
	st statement,
	line int,
) (any, error) {
	switch st.kind {
	case stmtEcho, stmtPrint:
		for _, src := range st.exprs {
			out, err := e.eval(ctx, ec, src, line)
			if err != nil {
				return nil, err
			}

			if _, err := io.WriteString(ec.out, value.Text(out)); err != nil {
				return nil, ErrOutput.Wrap(err).With(slog.Int("line", line))
			}
		}

		return nil, nil

	case stmtAssign:
		var (
			out any
			err error
		)

		switch st.op {
		case ".=":
			out, err = e.eval(ctx, ec, st.exprs[0], line)
			if err == nil {
				prev, _ := ec.Lookup(st.name)
				out = value.Text(prev) + value.Text(out)
			}

		case "+=", "-=":
			out, err = e.eval(ctx, ec,
				st.name+" "+st.op[:1]+" ("+st.exprs[0]+")", line)

		default:
			out, err = e.eval(ctx, ec, st.exprs[0], line)
		}

		if err != nil {
			return nil, err
		}

		ec.Set(st.name, out)

		e.loggerFor(ec).TraceContext(
			ctx,
			"assign",
			slog.String("name", st.name),
			slog.String("op", st.op),
			slog.Int("line", line),
		)

		return out, nil

	default:
		return e.eval(ctx, ec, st.exprs[0], line)
	}
}

// eval compiles src against the current environment of ec and runs it.
// Programs are compiled per call because assignments may change the type of
// any variable between statements.
func (e *Expr) eval(
	ctx context.Context,
	ec *Context,
	src string,
	line int,
) (any, error) {
	program, err := expr.Compile(
		src,
		expr.Env(ec.env),
		expr.AllowUndefinedVariables(),
	)
	if err != nil {
		return nil, ErrCompile.Wrap(err).With(
			slog.String("statement", src),
			slog.Int("line", line),
		)
	}

	logger := e.loggerFor(ec)
	if traceEnabled(ctx, logger) {
		logger.TraceContext(
			ctx,
			"compiled statement",
			slog.String("statement", src),
			slog.Any("identifiers", Identifiers(src)),
			slog.Int("line", line),
		)
	}

	out, err := vm.Run(program, ec.env)
	if err != nil {
		return nil, ErrEvaluate.Wrap(err).With(
			slog.String("statement", src),
			slog.Int("line", line),
		)
	}

	return out, nil
}

func (e *Expr) loggerFor(ec *Context) log.Logger {
	if ec.logger.Logger != nil {
		return ec.logger
	}

	return e.logger
}

func traceEnabled(ctx context.Context, logger log.Logger) bool {
	return logger.Allows(ctx, log.LevelTrace)
}
