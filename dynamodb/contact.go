package dynamodb

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"

	"contactbook/contact"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// Item key prefixes. A contact lives under CONTACT#<id>, every non-null email
// reserves EMAIL#<email> and the id sequence is kept in one counter item.
const (
	contactPrefix = "CONTACT#"
	emailPrefix   = "EMAIL#"
	counterKey    = "COUNTER#contacts"

	conditionalCheckFailed = "ConditionalCheckFailed"
)

// ContactRepository implements contact.Repository on a single table keyed by
// "pk". Email uniqueness is enforced with guard items written in the same
// transaction as the contact.
type ContactRepository struct {
	client *dynamodb.Client
	table  string
}

type contactItem struct {
	PK        string  `dynamodbav:"pk"`
	ID        int64   `dynamodbav:"id"`
	FirstName string  `dynamodbav:"firstName"`
	LastName  string  `dynamodbav:"lastName"`
	Email     *string `dynamodbav:"email"`
	Phone     *string `dynamodbav:"phone"`
}

type emailGuardItem struct {
	PK        string `dynamodbav:"pk"`
	ContactID int64  `dynamodbav:"contactId"`
}

func NewContactRepository(client *dynamodb.Client, table string) *ContactRepository {
	return &ContactRepository{
		client: client,
		table:  table,
	}
}

func (r *ContactRepository) AllContacts(ctx context.Context) ([]contact.Contact, error) {
	if err := validateTable(r.table); err != nil {
		return nil, err
	}

	contacts := []contact.Contact{}
	paginator := dynamodb.NewScanPaginator(r.client, &dynamodb.ScanInput{
		TableName:        &r.table,
		FilterExpression: aws.String("begins_with(pk, :prefix)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":prefix": &types.AttributeValueMemberS{Value: contactPrefix},
		},
		ConsistentRead: aws.Bool(true),
	})
	for paginator.HasMorePages() {
		out, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("dynamodb: scan contacts: %w", err)
		}

		var items []contactItem
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &items); err != nil {
			return nil, fmt.Errorf("dynamodb: unmarshal contacts: %w", err)
		}
		for _, item := range items {
			contacts = append(contacts, item.toContact())
		}
	}

	slices.SortFunc(contacts, func(a, b contact.Contact) int {
		return cmp.Or(
			cmp.Compare(a.LastName, b.LastName),
			cmp.Compare(a.FirstName, b.FirstName),
			cmp.Compare(a.ID, b.ID),
		)
	})
	return contacts, nil
}

func (r *ContactRepository) ContactByID(ctx context.Context, id int64) (contact.Contact, bool, error) {
	item, ok, err := r.getItem(ctx, id)
	if err != nil || !ok {
		return contact.Contact{}, ok, err
	}
	return item.toContact(), true, nil
}

func (r *ContactRepository) CreateContact(ctx context.Context, c contact.Contact) (int64, error) {
	if err := validateTable(r.table); err != nil {
		return 0, err
	}

	id, err := r.nextID(ctx)
	if err != nil {
		return 0, err
	}

	item := newContactItem(id, c)
	put, err := r.putIfAbsent(item)
	if err != nil {
		return 0, err
	}
	writes := []types.TransactWriteItem{put}
	if c.Email != nil {
		guard, err := r.putIfAbsent(emailGuardItem{PK: emailKey(*c.Email), ContactID: id})
		if err != nil {
			return 0, err
		}
		writes = append(writes, guard)
	}

	_, err = r.client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{TransactItems: writes})
	if err != nil {
		if c.Email != nil && cancelledItems(err)[1] {
			return 0, fmt.Errorf("dynamodb: create contact: %w", contact.ErrUniqueViolation)
		}
		return 0, fmt.Errorf("dynamodb: create contact: %w", err)
	}
	return id, nil
}

func (r *ContactRepository) UpdateContact(ctx context.Context, id int64, c contact.Contact) (int64, error) {
	current, ok, err := r.getItem(ctx, id)
	if err != nil || !ok {
		return 0, err
	}

	av, err := attributevalue.MarshalMap(newContactItem(id, c))
	if err != nil {
		return 0, fmt.Errorf("dynamodb: marshal contact: %w", err)
	}
	writes := []types.TransactWriteItem{{
		Put: &types.Put{
			TableName:           &r.table,
			Item:                av,
			ConditionExpression: aws.String("attribute_exists(pk)"),
		},
	}}

	guardIndex := -1
	if !sameEmail(current.Email, c.Email) {
		if current.Email != nil {
			writes = append(writes, r.deleteGuard(*current.Email))
		}
		if c.Email != nil {
			guard, err := r.putIfAbsent(emailGuardItem{PK: emailKey(*c.Email), ContactID: id})
			if err != nil {
				return 0, err
			}
			guardIndex = len(writes)
			writes = append(writes, guard)
		}
	}

	_, err = r.client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{TransactItems: writes})
	if err != nil {
		failed := cancelledItems(err)
		switch {
		case guardIndex > 0 && failed[guardIndex]:
			return 0, fmt.Errorf("dynamodb: update contact %d: %w", id, contact.ErrUniqueViolation)
		case failed[0]:
			return 0, nil
		}
		return 0, fmt.Errorf("dynamodb: update contact %d: %w", id, err)
	}
	return 1, nil
}

func (r *ContactRepository) DeleteContact(ctx context.Context, id int64) (int64, error) {
	current, ok, err := r.getItem(ctx, id)
	if err != nil || !ok {
		return 0, err
	}

	writes := []types.TransactWriteItem{{
		Delete: &types.Delete{
			TableName:           &r.table,
			Key:                 keyOf(contactKey(id)),
			ConditionExpression: aws.String("attribute_exists(pk)"),
		},
	}}
	if current.Email != nil {
		writes = append(writes, r.deleteGuard(*current.Email))
	}

	_, err = r.client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{TransactItems: writes})
	if err != nil {
		if cancelledItems(err)[0] {
			return 0, nil
		}
		return 0, fmt.Errorf("dynamodb: delete contact %d: %w", id, err)
	}
	return 1, nil
}

func (r *ContactRepository) getItem(ctx context.Context, id int64) (contactItem, bool, error) {
	if err := validateTable(r.table); err != nil {
		return contactItem{}, false, err
	}

	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      &r.table,
		Key:            keyOf(contactKey(id)),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return contactItem{}, false, fmt.Errorf("dynamodb: get contact %d: %w", id, err)
	}
	if len(out.Item) == 0 {
		return contactItem{}, false, nil
	}

	var item contactItem
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return contactItem{}, false, fmt.Errorf("dynamodb: unmarshal contact: %w", err)
	}
	return item, true, nil
}

// nextID atomically increments the contact sequence. Ids are never reused,
// even when the transaction that claimed one is cancelled.
func (r *ContactRepository) nextID(ctx context.Context) (int64, error) {
	out, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:        &r.table,
		Key:              keyOf(counterKey),
		UpdateExpression: aws.String("ADD seq :one"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":one": &types.AttributeValueMemberN{Value: "1"},
		},
		ReturnValues: types.ReturnValueUpdatedNew,
	})
	if err != nil {
		return 0, fmt.Errorf("dynamodb: next contact id: %w", err)
	}

	var id int64
	if err := attributevalue.Unmarshal(out.Attributes["seq"], &id); err != nil {
		return 0, fmt.Errorf("dynamodb: next contact id: %w", err)
	}
	return id, nil
}

func (r *ContactRepository) putIfAbsent(item any) (types.TransactWriteItem, error) {
	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return types.TransactWriteItem{}, fmt.Errorf("dynamodb: marshal item: %w", err)
	}
	return types.TransactWriteItem{
		Put: &types.Put{
			TableName:           &r.table,
			Item:                av,
			ConditionExpression: aws.String("attribute_not_exists(pk)"),
		},
	}, nil
}

func (r *ContactRepository) deleteGuard(email string) types.TransactWriteItem {
	return types.TransactWriteItem{
		Delete: &types.Delete{
			TableName: &r.table,
			Key:       keyOf(emailKey(email)),
		},
	}
}

// cancelledItems reports, by transaction index, which writes failed their
// condition. Any other error yields an empty map.
func cancelledItems(err error) map[int]bool {
	failed := map[int]bool{}
	var cancelled *types.TransactionCanceledException
	if !errors.As(err, &cancelled) {
		return failed
	}
	for i, reason := range cancelled.CancellationReasons {
		if aws.ToString(reason.Code) == conditionalCheckFailed {
			failed[i] = true
		}
	}
	return failed
}

func newContactItem(id int64, c contact.Contact) contactItem {
	return contactItem{
		PK:        contactKey(id),
		ID:        id,
		FirstName: c.FirstName,
		LastName:  c.LastName,
		Email:     c.Email,
		Phone:     c.Phone,
	}
}

func (item contactItem) toContact() contact.Contact {
	return contact.Contact{
		ID:        item.ID,
		FirstName: item.FirstName,
		LastName:  item.LastName,
		Email:     item.Email,
		Phone:     item.Phone,
	}
}

func contactKey(id int64) string {
	return contactPrefix + strconv.FormatInt(id, 10)
}

func emailKey(email string) string {
	return emailPrefix + email
}

func keyOf(pk string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		partitionKey: &types.AttributeValueMemberS{Value: pk},
	}
}

func sameEmail(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
