package sqlinline

const QSelectIntegrationToken = `--sql 4029ca56-d94c-4d6a-84ff-d1fd572f8126
select token, properties
from integration_tokens
where provider = $1::text
limit 1;
`

const QUpsertIntegrationToken = `--sql 8dd111e7-c53a-403e-9c89-c33f2635d39c
insert into integration_tokens(id, provider, token, properties, created_at, updated_at)
values (gen_random_uuid(), $1::text, $2::text, coalesce($3::jsonb, '{}'::jsonb), now(), now())
on conflict (provider) do update set
  token      = excluded.token,
  properties = excluded.properties,
  updated_at = now();
`
