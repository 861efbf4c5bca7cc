package workspace

import (
	"fmt"

	"blueprint/internal/model"
)

// Skeleton returns a minimal document of the given kind. Every skeleton
// except object_diagram (which needs class diagram 1) assembles on its own.
func Skeleton(kind Kind, id int, name, project string) ([]byte, error) {
	did := model.DiagramID(id)
	switch kind {
	case KindUseCaseModel:
		return Encode(kind, model.UseCaseModelCollection{
			ProjectName: project,
			UseCaseDiagrams: []model.UseCaseDiagram{{
				ID:       did,
				Name:     name,
				Actors:   []model.Actor{{ID: 1, Name: "User"}},
				UseCases: []model.UseCase{{ID: 1, Name: name}},
				Relationships: []model.UseCaseRelationship{{
					RelationshipType: model.RelationAssociation,
					SourceID:         1, SourceType: model.EndpointActor,
					TargetID: 1, TargetType: model.EndpointUseCase,
				}},
			}},
		})
	case KindUseCaseDescriptions:
		return Encode(kind, model.UseCaseDescriptionCollection{ProjectName: project, Descriptions: []model.UseCaseDescription{}})
	case KindActivityModel:
		return Encode(kind, model.ActivityModelCollection{
			ProjectName: project,
			ActivityDiagrams: []model.ActivityDiagram{{
				ID:   did,
				Name: name,
				Nodes: []model.ActivityNode{
					{ID: 1, Name: "Start", NodeType: model.NodeStart},
					{ID: 2, Name: name, NodeType: model.NodeAction},
					{ID: 3, Name: "End", NodeType: model.NodeEnd},
				},
				Flows: []model.Flow{{SourceID: 1, TargetID: 2}, {SourceID: 2, TargetID: 3}},
			}},
		})
	case KindRequirements:
		return Encode(kind, model.RequirementSet{
			ProjectName: project,
			Requirements: []model.Requirement{{
				ID:         1,
				Type:       model.RequirementFunctional,
				Functional: &model.FunctionalRequirement{Description: name},
			}},
		})
	case KindClassDiagram:
		return Encode(kind, model.ClassDiagram{ID: did, Name: name, Classes: []model.Class{{Name: "Example"}}})
	case KindObjectDiagram:
		return Encode(kind, model.ObjectDiagram{ID: did, Name: name, ClassDiagram: 1, Objects: []model.Object{}})
	case KindCRCCards:
		return Encode(kind, model.CRCCardSet{Name: name, Cards: []model.CRCCard{{ClassName: "Example"}}})
	}
	return nil, fmt.Errorf("unknown document kind %q", kind)
}
