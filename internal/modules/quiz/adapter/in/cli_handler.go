package in

import (
	"context"

	"quizhook/internal/modules/quiz/dto"
	quizin "quizhook/internal/modules/quiz/port/in"
)

type CLIHandler struct {
	usecase quizin.Usecase
}

func NewCLIHandler(usecase quizin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Prepare(ctx context.Context, quizPath, sessionID string) (dto.PrepareOutput, error) {
	return h.usecase.Prepare(ctx, dto.PrepareInput{QuizPath: quizPath, SessionID: sessionID})
}

func (h CLIHandler) Finish(ctx context.Context, input dto.FinishInput) (dto.FinishOutput, error) {
	return h.usecase.Finish(ctx, input)
}
